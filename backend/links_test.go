package backend

import "testing"

func TestClassifyLink(t *testing.T) {
	tests := []struct {
		input    string
		wantKind LinkKind
		wantID   string
	}{
		{"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"http://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"https://spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"spotify:track:4uLU6hMCjMI75M1A2tKUQC", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"HTTPS://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc123", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"  https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC  ", KindTrack, "4uLU6hMCjMI75M1A2tKUQC"},
		{"https://open.spotify.com/album/6dVIqQ8qmQ5GBnJ9shOYGE", KindAlbum, "6dVIqQ8qmQ5GBnJ9shOYGE"},
		{"spotify:album:6dVIqQ8qmQ5GBnJ9shOYGE", KindAlbum, "6dVIqQ8qmQ5GBnJ9shOYGE"},
		{"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", KindPlaylist, "37i9dQZF1DXcBWIGoYBM5M"},
		{"spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", KindPlaylist, "37i9dQZF1DXcBWIGoYBM5M"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, ok := ClassifyLink(tt.input)
			if !ok {
				t.Fatalf("ClassifyLink(%q) did not match", tt.input)
			}
			if ref.Kind != tt.wantKind || ref.ID != tt.wantID {
				t.Errorf("ClassifyLink(%q) = {%s %s}, want {%s %s}",
					tt.input, ref.Kind, ref.ID, tt.wantKind, tt.wantID)
			}
		})
	}
}

func TestClassifyLinkRejects(t *testing.T) {
	tests := []string{
		"",
		"hello world",
		"https://example.com/track/4uLU6hMCjMI75M1A2tKUQC",
		"https://open.spotify.com/track/abc-def", // ids are strictly alphanumeric
		"https://open.spotify.com/track/",
		"https://open.spotify.com/artist/4uLU6hMCjMI75M1A2tKUQC",
		"spotify:track:",
		"spotify:episode:4uLU6hMCjMI75M1A2tKUQC",
		"check out https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC please",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if ref, ok := ClassifyLink(input); ok {
				t.Errorf("ClassifyLink(%q) matched as {%s %s}, want no match", input, ref.Kind, ref.ID)
			}
		})
	}
}

func TestIsMusicLink(t *testing.T) {
	if !IsMusicLink("spotify:track:4uLU6hMCjMI75M1A2tKUQC") {
		t.Error("expected URI form to be recognized")
	}
	if IsMusicLink("not a link") {
		t.Error("expected plain text to be rejected")
	}
}
