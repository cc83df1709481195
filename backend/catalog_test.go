package backend

import "testing"

func TestMapTrackDefensiveDefaults(t *testing.T) {
	track := mapTrack(rawTrack{})

	if track.Title != "Unknown" {
		t.Errorf("Title = %q, want Unknown", track.Title)
	}
	if len(track.Artists) != 1 || track.Artists[0] != "Unknown" {
		t.Errorf("Artists = %v, want [Unknown]", track.Artists)
	}
	if track.Album != "Unknown" {
		t.Errorf("Album = %q, want Unknown", track.Album)
	}
	if track.DurationMs != 0 {
		t.Errorf("DurationMs = %d, want 0", track.DurationMs)
	}
	if track.ArtworkURL != "" {
		t.Errorf("ArtworkURL = %q, want empty", track.ArtworkURL)
	}
}

func TestMapTrackFull(t *testing.T) {
	raw := rawTrack{
		ID:   "abc123",
		Name: "Song",
		Artists: []rawArtist{
			{Name: "Lead"},
			{Name: "Feature"},
		},
		Album: rawAlbumRef{
			Name:        "Record",
			ReleaseDate: "2020-01-01",
			Images: []rawImage{
				{URL: "small", Width: 64, Height: 64},
				{URL: "big", Width: 640, Height: 640},
			},
		},
		DurationMs: 215000,
		Popularity: 80,
	}

	track := mapTrack(raw)
	if track.Title != "Song" || track.Album != "Record" {
		t.Errorf("mapped %q / %q", track.Title, track.Album)
	}
	if track.ArtistLine() != "Lead, Feature" {
		t.Errorf("ArtistLine = %q", track.ArtistLine())
	}
	if track.ArtworkURL != "big" {
		t.Errorf("ArtworkURL = %q, want the largest image", track.ArtworkURL)
	}
	if track.ReleaseDate != "2020-01-01" {
		t.Errorf("ReleaseDate = %q", track.ReleaseDate)
	}
}

func TestMapTrackBlankArtistName(t *testing.T) {
	track := mapTrack(rawTrack{Artists: []rawArtist{{Name: ""}}})
	if track.Artists[0] != "Unknown" {
		t.Errorf("blank artist mapped to %q", track.Artists[0])
	}
}

func TestJoinArtists(t *testing.T) {
	if got := joinArtists(nil); got != "Unknown" {
		t.Errorf("joinArtists(nil) = %q", got)
	}
	got := joinArtists([]rawArtist{{Name: "A"}, {Name: "B"}})
	if got != "A, B" {
		t.Errorf("joinArtists = %q", got)
	}
}

func TestStrOr(t *testing.T) {
	if got := strOr("", "fallback"); got != "fallback" {
		t.Errorf("strOr empty = %q", got)
	}
	if got := strOr("value", "fallback"); got != "value" {
		t.Errorf("strOr set = %q", got)
	}
}
