package backend

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// File naming for downloaded audio.

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

const maxFilenameLen = 100

// CleanFilename makes a name safe for the local filesystem: invalid
// characters are stripped, whitespace runs collapse to a single space,
// the result is trimmed and capped at 100 characters. An empty result
// becomes "untitled". The function is idempotent.
func CleanFilename(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > maxFilenameLen {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:maxFilenameLen]))
	}

	if name == "" {
		return "untitled"
	}
	return name
}

// TrackBaseName derives the display filename stem for a track,
// "Artist - Title" sanitized.
func TrackBaseName(artist, title string) string {
	return CleanFilename(fmt.Sprintf("%s - %s", artist, title))
}

// TempAudioPath builds a unique destination path under dir for one
// download request. A short random token keeps concurrent conversations
// requesting the same track from colliding on the same path.
func TempAudioPath(dir, artist, title, ext string) string {
	token := uuid.NewString()[:8]
	name := fmt.Sprintf("%s-%s.%s", TrackBaseName(artist, title), token, ext)
	return filepath.Join(dir, name)
}
