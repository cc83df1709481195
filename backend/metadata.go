package backend

import (
	"fmt"
	"strings"
)

// Typed metadata produced at the resolver boundary. Raw catalog JSON never
// travels past catalog.go; everything downstream works on these structs.

// TrackMetadata describes a single resolved track.
type TrackMetadata struct {
	ID          string
	Title       string
	Artists     []string // ordered, primary artist first
	Album       string
	DurationMs  int
	ReleaseDate string
	Popularity  int
	PreviewURL  string
	ArtworkURL  string
}

// ArtistLine joins the artist names the way they are shown to the user.
func (t *TrackMetadata) ArtistLine() string {
	if len(t.Artists) == 0 {
		return "Unknown"
	}
	return strings.Join(t.Artists, ", ")
}

// PrimaryArtist returns the first artist, used for source search queries.
func (t *TrackMetadata) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return "Unknown"
	}
	return t.Artists[0]
}

// DurationSeconds converts the track duration for the chat transport.
func (t *TrackMetadata) DurationSeconds() int {
	return t.DurationMs / 1000
}

// CollectionMetadata describes a resolved album or playlist.
// TotalTracks always equals len(Tracks), also after truncation.
type CollectionMetadata struct {
	Kind          LinkKind // KindAlbum or KindPlaylist
	ID            string
	Title         string
	OwnerOrArtist string
	ReleaseDate   string
	Description   string
	ArtworkURL    string
	Tracks        []TrackMetadata
	TotalTracks   int
}

// Truncate caps the collection at max tracks, preserving original order.
// It reports whether anything was dropped.
func (c *CollectionMetadata) Truncate(max int) bool {
	if max < 0 || len(c.Tracks) <= max {
		return false
	}
	c.Tracks = c.Tracks[:max]
	c.TotalTracks = max
	return true
}

// Resolved is the tagged result of a catalog resolution: exactly one of
// Track or Collection is set, matching Kind.
type Resolved struct {
	Kind       LinkKind
	Track      *TrackMetadata
	Collection *CollectionMetadata
}

// Image is one artwork candidate from the catalog.
type Image struct {
	URL    string
	Width  int
	Height int
}

// BestImage picks the image with the largest width×height area.
// Ties resolve to the first-seen candidate; an empty list yields "".
func BestImage(images []Image) string {
	best := ""
	bestArea := -1
	for _, img := range images {
		area := img.Width * img.Height
		if area > bestArea {
			bestArea = area
			best = img.URL
		}
	}
	return best
}

// FormatDuration renders a millisecond duration as M:SS.
func FormatDuration(durationMs int) string {
	if durationMs <= 0 {
		return "0:00"
	}
	seconds := durationMs / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
