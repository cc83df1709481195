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

// Jamendo source. Jamendo hosts openly licensed music only, so hits for
// mainstream catalog tracks are rare; the source mostly matters for the
// long tail. Requires a (free) API client id.

const (
	jamendoAPIBase       = "https://api.jamendo.com/v3.0"
	jamendoSearchTimeout = 10 * time.Second
	jamendoFetchTimeout  = 30 * time.Second
)

// JamendoSource searches the Jamendo track API and downloads the audio
// rendition it advertises.
type JamendoSource struct {
	clientID string
	search   *http.Client
	fetch    *http.Client
}

// NewJamendoSource builds the source; an empty clientID leaves it
// permanently unavailable, which the waterfall skips over.
func NewJamendoSource(clientID, proxyURL string) *JamendoSource {
	return &JamendoSource{
		clientID: clientID,
		search:   MustHTTPClient(jamendoSearchTimeout, proxyURL),
		fetch:    MustHTTPClient(jamendoFetchTimeout, proxyURL),
	}
}

func (s *JamendoSource) Name() string { return "jamendo" }

func (s *JamendoSource) Available() bool { return s.clientID != "" }

// Search asks the track endpoint for the closest name match.
func (s *JamendoSource) Search(ctx context.Context, title, artist string) (*Locator, error) {
	query := url.Values{
		"client_id":   {s.clientID},
		"format":      {"json"},
		"limit":       {"1"},
		"namesearch":  {fmt.Sprintf("%s %s", artist, title)},
		"audioformat": {"mp32"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		jamendoAPIBase+"/tracks/?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.search.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jamendo search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jamendo search returned %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			Name          string `json:"name"`
			Audio         string `json:"audio"`
			AudioDownload string `json:"audiodownload"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing jamendo response: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, ErrNoMatch
	}

	hit := result.Results[0]
	audioURL := hit.AudioDownload
	if audioURL == "" {
		audioURL = hit.Audio
	}
	if audioURL == "" {
		return nil, ErrNoMatch
	}

	return &Locator{Source: s.Name(), URL: audioURL, Title: hit.Name}, nil
}

// Fetch streams the advertised audio URL to destPath. Jamendo serves a
// fixed mp3 rendition, so the quality tier maps to its nearest option.
func (s *JamendoSource) Fetch(ctx context.Context, loc *Locator, destPath string, _ Quality) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL, nil)
	if err != nil {
		return err
	}

	resp, err := s.fetch.Do(req)
	if err != nil {
		return fmt.Errorf("jamendo download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jamendo download returned %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		removeIfExists(destPath)
		return fmt.Errorf("writing jamendo download: %w", err)
	}
	return out.Close()
}
