package backend

import (
	"math/rand"
	"strings"
	"sync"
)

// In-memory demo catalog used to exercise the bot without a real link.
// The seed list is shared by all conversations, so every accessor takes
// the lock; appends are the only mutation.

// DemoTrack is one known-good demo entry.
type DemoTrack struct {
	Name       string
	Artist     string
	SpotifyURL string
}

// DemoCatalog holds the seed tracks plus any runtime-appended entries.
type DemoCatalog struct {
	mu     sync.RWMutex
	tracks []DemoTrack
}

var seedTracks = []DemoTrack{
	{"Never Gonna Give You Up", "Rick Astley", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"},
	{"Shape of You", "Ed Sheeran", "https://open.spotify.com/track/7qiZfU4dY1lWllzX7mPBI3"},
	{"bad guy", "Billie Eilish", "https://open.spotify.com/track/2Fxmhks0bxGSBdJ92vM42m"},
	{"Circles", "Post Malone", "https://open.spotify.com/track/21jGcNKet2qwijlDFuPiPb"},
	{"Someone Like You", "Adele", "https://open.spotify.com/track/1zwMYTA5nlNjZxYrvBB2pV"},
	{"Bohemian Rhapsody", "Queen", "https://open.spotify.com/track/3z8h0TU7ReDPLIbEnYhWZb"},
	{"Imagine", "John Lennon", "https://open.spotify.com/track/7pKfPomDEeI4TPT6EOYjn9"},
	{"Sweet Child O Mine", "Guns N Roses", "https://open.spotify.com/track/7o2CTH4ctstm8TNelqjb51"},
	{"Stairway to Heaven", "Led Zeppelin", "https://open.spotify.com/track/5CQ30WqJwcep0pYcV4AMNc"},
	{"Hotel California", "Eagles", "https://open.spotify.com/track/40riOy7x9W7GXjyGp4pjAv"},
	{"Smells Like Teen Spirit", "Nirvana", "https://open.spotify.com/track/5ghIJDpPoe3CfHMGu71E6T"},
	{"Yesterday", "The Beatles", "https://open.spotify.com/track/3BQHpFgAp4l80e1XslIjNI"},
}

// NewDemoCatalog returns a catalog seeded with the built-in track list.
func NewDemoCatalog() *DemoCatalog {
	return &DemoCatalog{tracks: append([]DemoTrack(nil), seedTracks...)}
}

// Sample returns n entries chosen without replacement, uniformly at random.
// If n exceeds the list size it is clamped; n ≤ 0 yields an empty slice.
func (d *DemoCatalog) Sample(n int) []DemoTrack {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	if n > len(d.tracks) {
		n = len(d.tracks)
	}

	perm := rand.Perm(len(d.tracks))
	out := make([]DemoTrack, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, d.tracks[idx])
	}
	return out
}

// ByIndex returns the entry at position i, or ok=false when out of range.
func (d *DemoCatalog) ByIndex(i int) (DemoTrack, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i < 0 || i >= len(d.tracks) {
		return DemoTrack{}, false
	}
	return d.tracks[i], true
}

// Search matches query case-insensitively against name or artist,
// preserving original order. An empty query matches everything.
func (d *DemoCatalog) Search(query string) []DemoTrack {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query = strings.ToLower(query)
	var out []DemoTrack
	for _, t := range d.tracks {
		if strings.Contains(strings.ToLower(t.Name), query) ||
			strings.Contains(strings.ToLower(t.Artist), query) {
			out = append(out, t)
		}
	}
	return out
}

// ByArtist returns all tracks whose artist matches query, case-insensitive.
func (d *DemoCatalog) ByArtist(artist string) []DemoTrack {
	d.mu.RLock()
	defer d.mu.RUnlock()

	artist = strings.ToLower(artist)
	var out []DemoTrack
	for _, t := range d.tracks {
		if strings.Contains(strings.ToLower(t.Artist), artist) {
			out = append(out, t)
		}
	}
	return out
}

// Append adds a custom entry at the end of the list. Arbitrary strings
// are accepted; no validation is performed.
func (d *DemoCatalog) Append(t DemoTrack) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tracks = append(d.tracks, t)
}

// All returns a copy of the current list.
func (d *DemoCatalog) All() []DemoTrack {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]DemoTrack(nil), d.tracks...)
}

// Len reports the current list size.
func (d *DemoCatalog) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.tracks)
}
