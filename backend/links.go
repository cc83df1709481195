package backend

import (
	"regexp"
	"strings"
)

// Shared-link classification. Pure string matching, no network access.

// LinkKind is the content kind encoded in a Spotify share link.
type LinkKind string

const (
	KindTrack    LinkKind = "track"
	KindAlbum    LinkKind = "album"
	KindPlaylist LinkKind = "playlist"
)

// LinkRef identifies one catalog object extracted from a share link.
type LinkRef struct {
	Kind LinkKind
	ID   string
}

// Recognized link forms, per kind:
//   - http(s)://open.spotify.com/{kind}/{id}   (scheme optional)
//   - http(s)://spotify.com/{kind}/{id}        (scheme optional)
//   - spotify:{kind}:{id}
//
// IDs are strictly alphanumeric; a trailing query string is tolerated.
// The scheme is matched case-insensitively.
var linkPatterns = []struct {
	kind     LinkKind
	patterns []*regexp.Regexp
}{
	{KindTrack, []*regexp.Regexp{
		regexp.MustCompile(`^(?i:https?://)?(?:open\.)?spotify\.com/track/([a-zA-Z0-9]+)(?:[?#].*)?$`),
		regexp.MustCompile(`^spotify:track:([a-zA-Z0-9]+)$`),
	}},
	{KindAlbum, []*regexp.Regexp{
		regexp.MustCompile(`^(?i:https?://)?(?:open\.)?spotify\.com/album/([a-zA-Z0-9]+)(?:[?#].*)?$`),
		regexp.MustCompile(`^spotify:album:([a-zA-Z0-9]+)$`),
	}},
	{KindPlaylist, []*regexp.Regexp{
		regexp.MustCompile(`^(?i:https?://)?(?:open\.)?spotify\.com/playlist/([a-zA-Z0-9]+)(?:[?#].*)?$`),
		regexp.MustCompile(`^spotify:playlist:([a-zA-Z0-9]+)$`),
	}},
}

// ClassifyLink parses a shared URL or URI into a LinkRef.
// Precedence is track → album → playlist; the first matching pattern wins.
// Non-matching input returns ok=false, which callers must treat as
// "not a recognized link", not as an error.
func ClassifyLink(text string) (LinkRef, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return LinkRef{}, false
	}

	for _, entry := range linkPatterns {
		for _, re := range entry.patterns {
			if m := re.FindStringSubmatch(text); len(m) > 1 {
				return LinkRef{Kind: entry.kind, ID: m[1]}, true
			}
		}
	}
	return LinkRef{}, false
}

// IsMusicLink reports whether text is a recognized Spotify share link.
func IsMusicLink(text string) bool {
	_, ok := ClassifyLink(text)
	return ok
}
