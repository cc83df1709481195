package backend

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Name", "Normal Name"},
		{"A/B:C", "ABC"},
		{"With\\Backslash", "WithBackslash"},
		{"With<Brackets>", "WithBrackets"},
		{"With|Pipe?And*Star", "WithPipeAndStar"},
		{"With\"Quotes\"", "WithQuotes"},
		{"  Extra   Spaces  ", "Extra Spaces"},
		{"", "untitled"},
		{"   ", "untitled"},
		{"///", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := CleanFilename(tt.input)
			if result != tt.expected {
				t.Errorf("CleanFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCleanFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 250)
	result := CleanFilename(long)
	if len(result) != 100 {
		t.Errorf("len = %d, want 100", len(result))
	}
}

func TestCleanFilenameCapsOnRunes(t *testing.T) {
	long := strings.Repeat("é", 150) // 2 bytes per rune
	result := CleanFilename(long)
	if !utf8.ValidString(result) {
		t.Fatalf("result is not valid UTF-8: %q", result)
	}
	if got := utf8.RuneCountInString(result); got != 100 {
		t.Errorf("rune count = %d, want 100", got)
	}
	if CleanFilename(result) != result {
		t.Error("rune-capped result is not idempotent")
	}
}

func TestCleanFilenameIdempotent(t *testing.T) {
	inputs := []string{
		"Normal Name",
		"A/B:C with  spaces ",
		strings.Repeat("word ", 40),
		"",
	}
	for _, input := range inputs {
		once := CleanFilename(input)
		twice := CleanFilename(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestTrackBaseName(t *testing.T) {
	got := TrackBaseName("AC/DC", "Back In Black?")
	want := "ACDC - Back In Black"
	if got != want {
		t.Errorf("TrackBaseName = %q, want %q", got, want)
	}
}

func TestTempAudioPathUnique(t *testing.T) {
	a := TempAudioPath("/tmp", "Artist", "Title", "mp3")
	b := TempAudioPath("/tmp", "Artist", "Title", "mp3")
	if a == b {
		t.Errorf("two paths for the same track collide: %q", a)
	}
	if filepath.Dir(a) != "/tmp" {
		t.Errorf("dir = %q, want /tmp", filepath.Dir(a))
	}
	if filepath.Ext(a) != ".mp3" {
		t.Errorf("ext = %q, want .mp3", filepath.Ext(a))
	}
	if !strings.HasPrefix(filepath.Base(a), "Artist - Title-") {
		t.Errorf("base = %q, want Artist - Title prefix", filepath.Base(a))
	}
}
