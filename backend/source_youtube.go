package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wader/goutubedl"
)

// YouTube source: yt-dlp search plus extract-audio download. Queries are
// tried in descending precision; the first result of the first query that
// yields anything wins, with no scoring of alternatives.

const (
	ytSearchTimeout = 15 * time.Second
	ytFetchTimeout  = 45 * time.Second
)

// YouTubeSource locates tracks through yt-dlp's ytsearch and downloads
// them as mp3 via --extract-audio.
type YouTubeSource struct {
	binary string
}

// NewYouTubeSource returns a source backed by the yt-dlp binary on PATH.
func NewYouTubeSource() *YouTubeSource {
	return &YouTubeSource{binary: "yt-dlp"}
}

func (s *YouTubeSource) Name() string { return "youtube" }

// Available reports whether the yt-dlp binary can be found.
func (s *YouTubeSource) Available() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}

// searchQueries builds the descending-precision query ladder for a track.
func searchQueries(title, artist string) []string {
	return []string{
		fmt.Sprintf(`"%s" "%s" official audio`, title, artist),
		fmt.Sprintf(`"%s" "%s" official`, title, artist),
		fmt.Sprintf(`"%s" by "%s"`, title, artist),
		fmt.Sprintf("%s - %s official audio", artist, title),
		fmt.Sprintf("%s %s lyrics", artist, title),
		fmt.Sprintf("%s %s music video", title, artist),
		fmt.Sprintf("%s %s", title, artist),
	}
}

// Search runs the query ladder and returns the first video found.
func (s *YouTubeSource) Search(ctx context.Context, title, artist string) (*Locator, error) {
	for _, query := range searchQueries(title, artist) {
		loc, err := s.searchOnce(ctx, query)
		if err != nil {
			Logger.Debug("youtube query failed", "query", query, "error", err)
			continue
		}
		if loc != nil {
			Logger.Debug("youtube query matched", "query", query, "url", loc.URL)
			return loc, nil
		}
	}
	return nil, ErrNoMatch
}

func (s *YouTubeSource) searchOnce(parent context.Context, query string) (*Locator, error) {
	ctx, cancel := context.WithTimeout(parent, ytSearchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary,
		"--dump-json",
		"--no-download",
		"--playlist-end", "1",
		"--socket-timeout", "10",
		"--no-warnings",
		"ytsearch1:"+query,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search: %w", err)
	}

	var entry struct {
		Title      string `json:"title"`
		WebpageURL string `json:"webpage_url"`
		URL        string `json:"url"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(output))), &entry); err != nil {
		return nil, fmt.Errorf("parsing yt-dlp output: %w", err)
	}

	videoURL := entry.WebpageURL
	if videoURL == "" {
		videoURL = entry.URL
	}
	if videoURL == "" {
		return nil, nil
	}

	return &Locator{Source: s.Name(), URL: videoURL, Title: entry.Title}, nil
}

// Fetch validates the locator through goutubedl, then extracts mp3 audio
// with yt-dlp at the tier's bitrate.
func (s *YouTubeSource) Fetch(parent context.Context, loc *Locator, destPath string, quality Quality) error {
	ctx, cancel := context.WithTimeout(parent, ytFetchTimeout)
	defer cancel()

	// Confirm the locator still resolves to a single downloadable video
	// before spending the download budget on it.
	if _, err := goutubedl.New(ctx, loc.URL, goutubedl.Options{Type: goutubedl.TypeSingle}); err != nil {
		return fmt.Errorf("resolving video: %w", err)
	}

	// yt-dlp substitutes the real extension during audio extraction.
	outputTemplate := strings.TrimSuffix(destPath, filepath.Ext(destPath)) + ".%(ext)s"

	cmd := exec.CommandContext(ctx, s.binary,
		"--extract-audio",
		"--audio-format", quality.Format(),
		"--audio-quality", fmt.Sprintf("%dK", quality.BitrateKbps()),
		"--no-playlist",
		"--socket-timeout", "15",
		"--retries", "2",
		"--fragment-retries", "2",
		"--no-warnings",
		"--output", outputTemplate,
		loc.URL,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("yt-dlp download: %w: %s", err, truncateOutput(output))
	}

	if _, err := os.Stat(destPath); err != nil {
		return fmt.Errorf("download finished but %s missing: %w", destPath, err)
	}
	return nil
}

func truncateOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
