package backend

import "testing"

func TestBestImage(t *testing.T) {
	tests := []struct {
		name   string
		images []Image
		want   string
	}{
		{
			"largest area wins",
			[]Image{
				{URL: "small", Width: 10, Height: 10},
				{URL: "wide", Width: 20, Height: 5},
				{URL: "tall", Width: 5, Height: 40},
			},
			"tall",
		},
		{
			"tie resolves to first seen",
			[]Image{
				{URL: "first", Width: 100, Height: 100},
				{URL: "second", Width: 100, Height: 100},
			},
			"first",
		},
		{"empty list", nil, ""},
		{
			"zero dimensions still pick something",
			[]Image{{URL: "only", Width: 0, Height: 0}},
			"only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestImage(tt.images); got != tt.want {
				t.Errorf("BestImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{1000, "0:01"},
		{59999, "0:59"},
		{60000, "1:00"},
		{200000, "3:20"},
		{3599000, "59:59"},
		{3600000, "60:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestTrackMetadataAccessors(t *testing.T) {
	track := TrackMetadata{
		Title:      "Song",
		Artists:    []string{"First", "Second"},
		DurationMs: 200000,
	}

	if got := track.ArtistLine(); got != "First, Second" {
		t.Errorf("ArtistLine = %q", got)
	}
	if got := track.PrimaryArtist(); got != "First" {
		t.Errorf("PrimaryArtist = %q", got)
	}
	if got := track.DurationSeconds(); got != 200 {
		t.Errorf("DurationSeconds = %d", got)
	}

	empty := TrackMetadata{}
	if got := empty.ArtistLine(); got != "Unknown" {
		t.Errorf("empty ArtistLine = %q", got)
	}
	if got := empty.PrimaryArtist(); got != "Unknown" {
		t.Errorf("empty PrimaryArtist = %q", got)
	}
}

func TestCollectionTruncate(t *testing.T) {
	col := CollectionMetadata{TotalTracks: 3}
	for i := 0; i < 3; i++ {
		col.Tracks = append(col.Tracks, TrackMetadata{Title: string(rune('a' + i))})
	}

	if col.Truncate(5) {
		t.Error("truncating below the cap should report false")
	}
	if len(col.Tracks) != 3 || col.TotalTracks != 3 {
		t.Errorf("collection changed: %d tracks, total %d", len(col.Tracks), col.TotalTracks)
	}

	if !col.Truncate(2) {
		t.Error("truncating above the cap should report true")
	}
	if len(col.Tracks) != 2 || col.TotalTracks != 2 {
		t.Errorf("after truncate: %d tracks, total %d", len(col.Tracks), col.TotalTracks)
	}
	if col.Tracks[0].Title != "a" || col.Tracks[1].Title != "b" {
		t.Error("truncation did not preserve order")
	}
}
