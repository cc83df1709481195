package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
)

// fakeSource scripts one source's behavior for waterfall tests.
type fakeSource struct {
	name        string
	available   bool
	searchErr   error
	fetchErr    error
	fileSize    int
	searchCalls int
	fetchCalls  int
}

func (s *fakeSource) Name() string    { return s.name }
func (s *fakeSource) Available() bool { return s.available }

func (s *fakeSource) Search(_ context.Context, title, artist string) (*Locator, error) {
	s.searchCalls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &Locator{Source: s.name, URL: "fake://" + title}, nil
}

func (s *fakeSource) Fetch(_ context.Context, _ *Locator, destPath string, _ Quality) error {
	s.fetchCalls++
	if s.fetchErr != nil {
		return s.fetchErr
	}
	return os.WriteFile(destPath, bytes.Repeat([]byte{0xAB}, s.fileSize), 0o644)
}

func TestFetchAudioFirstSuccessWins(t *testing.T) {
	first := &fakeSource{name: "first", available: true, searchErr: errors.New("boom")}
	second := &fakeSource{name: "second", available: true, fileSize: MinAudioBytes}
	third := &fakeSource{name: "third", available: true, fileSize: MinAudioBytes}

	d := NewDownloaderWithSources(t.TempDir(), first, second, third)
	result, err := d.FetchAudio(context.Background(), "Song", "Artist", QualityMedium)
	if err != nil {
		t.Fatalf("FetchAudio failed: %v", err)
	}

	if result.Source != "second" {
		t.Errorf("source = %q, want second", result.Source)
	}
	if result.SizeBytes != MinAudioBytes {
		t.Errorf("size = %d, want %d", result.SizeBytes, MinAudioBytes)
	}
	if third.searchCalls != 0 || third.fetchCalls != 0 {
		t.Error("third source should never be attempted after a success")
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		t.Errorf("result file missing: %v", err)
	}
}

func TestFetchAudioAllFail(t *testing.T) {
	first := &fakeSource{name: "first", available: true, searchErr: ErrNoMatch}
	second := &fakeSource{name: "second", available: true, fetchErr: errors.New("timeout")}

	d := NewDownloaderWithSources(t.TempDir(), first, second)
	_, err := d.FetchAudio(context.Background(), "Song", "Artist", QualityHigh)
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestFetchAudioSkipsUnavailable(t *testing.T) {
	off := &fakeSource{name: "off", available: false, fileSize: MinAudioBytes}
	on := &fakeSource{name: "on", available: true, fileSize: MinAudioBytes}

	d := NewDownloaderWithSources(t.TempDir(), off, on)
	result, err := d.FetchAudio(context.Background(), "Song", "Artist", QualityLow)
	if err != nil {
		t.Fatalf("FetchAudio failed: %v", err)
	}
	if result.Source != "on" {
		t.Errorf("source = %q, want on", result.Source)
	}
	if off.searchCalls != 0 {
		t.Error("unavailable source should not be searched")
	}
}

func TestFetchAudioRejectsSmallFiles(t *testing.T) {
	tiny := &fakeSource{name: "tiny", available: true, fileSize: 512}
	good := &fakeSource{name: "good", available: true, fileSize: MinAudioBytes}

	dir := t.TempDir()
	d := NewDownloaderWithSources(dir, tiny, good)
	result, err := d.FetchAudio(context.Background(), "Song", "Artist", QualityMedium)
	if err != nil {
		t.Fatalf("FetchAudio failed: %v", err)
	}
	if result.Source != "good" {
		t.Errorf("source = %q, want good (tiny file should be rejected)", result.Source)
	}

	// The rejected partial must be cleaned up; only the good file remains.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp dir holds %d files, want 1", len(entries))
	}
}

func TestFetchAudioNoSources(t *testing.T) {
	d := NewDownloaderWithSources(t.TempDir())
	_, err := d.FetchAudio(context.Background(), "Song", "Artist", QualityMedium)
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestNewDownloaderPriorityOrder(t *testing.T) {
	cfg := &Config{
		TempDir:        t.TempDir(),
		SourcePriority: []string{"archive", "nonsense", "fma"},
	}
	d := NewDownloader(cfg)

	if len(d.sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(d.sources))
	}
	if d.sources[0].Name() != "archive" || d.sources[1].Name() != "fma" {
		t.Errorf("order = [%s %s]", d.sources[0].Name(), d.sources[1].Name())
	}
}
