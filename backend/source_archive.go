package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Internet Archive source. The advanced-search API finds audio items by
// free-text query; each item exposes a predictable mp3 download URL.
// Quality tiers cannot be honored here — the archive serves whatever
// encoding the item was uploaded with.

const (
	archiveSearchURL     = "https://archive.org/advancedsearch.php"
	archiveDownloadBase  = "https://archive.org/download"
	archiveSearchTimeout = 10 * time.Second
	archiveFetchTimeout  = 30 * time.Second
	archiveMaxCandidates = 3
	archiveMinBytes      = 1000 // quick sanity check before the global size gate
)

// ArchiveSource searches and downloads from archive.org.
type ArchiveSource struct {
	search *http.Client
	fetch  *http.Client
}

// NewArchiveSource builds the source with separate search and fetch
// clients so each phase carries its own timeout.
func NewArchiveSource(proxyURL string) *ArchiveSource {
	return &ArchiveSource{
		search: MustHTTPClient(archiveSearchTimeout, proxyURL),
		fetch:  MustHTTPClient(archiveFetchTimeout, proxyURL),
	}
}

func (s *ArchiveSource) Name() string { return "archive" }

func (s *ArchiveSource) Available() bool { return true }

// Search queries the advanced-search API and returns the first audio item
// identifiers as fetch candidates.
func (s *ArchiveSource) Search(ctx context.Context, title, artist string) (*Locator, error) {
	query := url.Values{
		"q":      {fmt.Sprintf("%s %s AND mediatype:audio", artist, title)},
		"fl":     {"identifier,title,creator"},
		"rows":   {"10"},
		"output": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		archiveSearchURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.search.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive search returned %d", resp.StatusCode)
	}

	var result struct {
		Response struct {
			Docs []struct {
				Identifier string `json:"identifier"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing archive response: %w", err)
	}

	var candidates []string
	for _, doc := range result.Response.Docs {
		if doc.Identifier == "" {
			continue
		}
		candidates = append(candidates, doc.Identifier)
		if len(candidates) == archiveMaxCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}

	return &Locator{
		Source:     s.Name(),
		URL:        archiveItemURL(candidates[0]),
		Candidates: candidates,
	}, nil
}

// Fetch downloads the first candidate that yields a plausible file.
// The quality tier is ignored; the archive has one encoding per item.
func (s *ArchiveSource) Fetch(ctx context.Context, loc *Locator, destPath string, _ Quality) error {
	candidates := loc.Candidates
	if len(candidates) == 0 && loc.URL != "" {
		return s.fetchOne(ctx, loc.URL, destPath)
	}

	var lastErr error
	for _, id := range candidates {
		if err := s.fetchOne(ctx, archiveItemURL(id), destPath); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all archive candidates failed: %w", lastErr)
}

func (s *ArchiveSource) fetchOne(ctx context.Context, fileURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.fetch.Do(req)
	if err != nil {
		return fmt.Errorf("archive download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("archive download returned %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err != nil {
		removeIfExists(destPath)
		return fmt.Errorf("writing archive download: %w", err)
	}
	if closeErr != nil {
		removeIfExists(destPath)
		return closeErr
	}
	if written < archiveMinBytes {
		removeIfExists(destPath)
		return fmt.Errorf("archive item too small (%d bytes)", written)
	}
	return nil
}

func archiveItemURL(identifier string) string {
	return fmt.Sprintf("%s/%s/%s.mp3", archiveDownloadBase, identifier, identifier)
}
