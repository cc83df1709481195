package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Source waterfall: an ordered list of best-effort audio sources, tried in
// sequence until one produces a usable file. There is no racing and no
// retry within a source; a failed or timed-out source simply yields to
// the next one.

// MinAudioBytes is the smallest file accepted as real audio. Anything
// smaller is assumed to be an error page or truncated response.
const MinAudioBytes = 100 * 1024

// Locator is an opaque reference produced by a source's search step,
// sufficient for the same source's fetch step. Candidates carries
// fallback references for sources whose search returns several hits.
type Locator struct {
	Source     string
	URL        string
	Title      string
	Candidates []string
}

// Source is one audio provider strategy. Implementations manage their own
// search and fetch timeouts; exceeding them is reported as an ordinary
// error and counts as that source's failure.
type Source interface {
	Name() string
	// Available reports whether the source can be attempted at all
	// (binary installed, credential configured).
	Available() bool
	// Search locates the track. ErrNoMatch means "nothing found"; any
	// other error is a source fault. Neither aborts the waterfall.
	Search(ctx context.Context, title, artist string) (*Locator, error)
	// Fetch downloads the located audio to destPath in the tier's format.
	Fetch(ctx context.Context, loc *Locator, destPath string, quality Quality) error
}

// DownloadResult describes one successfully retrieved audio file.
// The caller owns the file and must delete it after delivery.
type DownloadResult struct {
	FilePath  string
	SizeBytes int64
	Source    string
}

// Downloader runs the waterfall over its configured sources.
type Downloader struct {
	sources []Source
	tempDir string
}

// NewDownloader builds the waterfall from the configured priority order.
// Unknown source names are skipped with a warning.
func NewDownloader(cfg *Config) *Downloader {
	available := map[string]Source{
		"youtube": NewYouTubeSource(),
		"archive": NewArchiveSource(cfg.ProxyURL),
		"jamendo": NewJamendoSource(cfg.JamendoClientID, cfg.ProxyURL),
		"fma":     NewFMASource(),
	}

	var sources []Source
	for _, name := range cfg.SourcePriority {
		src, ok := available[name]
		if !ok {
			Logger.Warn("unknown audio source in priority list", "source", name)
			continue
		}
		sources = append(sources, src)
	}

	return &Downloader{sources: sources, tempDir: cfg.TempDir}
}

// NewDownloaderWithSources builds a waterfall over an explicit source list.
func NewDownloaderWithSources(tempDir string, sources ...Source) *Downloader {
	return &Downloader{sources: sources, tempDir: tempDir}
}

// FetchAudio tries every configured source in order and returns the first
// validated local file. It fails with ErrNoSource only after the last
// source has been attempted.
func (d *Downloader) FetchAudio(ctx context.Context, title, artist string, quality Quality) (*DownloadResult, error) {
	if len(d.sources) == 0 {
		return nil, fmt.Errorf("no sources configured: %w", ErrNoSource)
	}

	for _, src := range d.sources {
		if !src.Available() {
			Logger.Debug("skipping unavailable source", "source", src.Name())
			continue
		}

		result, err := d.trySource(ctx, src, title, artist, quality)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) {
				Logger.Warn("source failed",
					"source", src.Name(), "title", title, "artist", artist, "error", err)
			}
			continue
		}

		Logger.Info("download succeeded",
			"source", src.Name(), "title", title, "artist", artist, "bytes", result.SizeBytes)
		return result, nil
	}

	return nil, fmt.Errorf("%q by %q: %w", title, artist, ErrNoSource)
}

func (d *Downloader) trySource(ctx context.Context, src Source, title, artist string, quality Quality) (*DownloadResult, error) {
	loc, err := src.Search(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrNoMatch
	}

	destPath := TempAudioPath(d.tempDir, artist, title, quality.Format())
	if err := src.Fetch(ctx, loc, destPath, quality); err != nil {
		removeIfExists(destPath)
		return nil, err
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("fetched file missing: %w", err)
	}
	if info.Size() < MinAudioBytes {
		// Near-empty responses are rejected and the partial file discarded.
		removeIfExists(destPath)
		return nil, fmt.Errorf("fetched file too small (%d bytes)", info.Size())
	}

	return &DownloadResult{
		FilePath:  destPath,
		SizeBytes: info.Size(),
		Source:    src.Name(),
	}, nil
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		Logger.Warn("could not remove file", "path", path, "error", err)
	}
}
