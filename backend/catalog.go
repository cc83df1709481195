package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Spotify Web API metadata resolution. Raw API payloads are converted to
// the typed structs in metadata.go right here and never passed further.

const (
	spotifyAPIBase   = "https://api.spotify.com/v1"
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	catalogTimeout   = 15 * time.Second
	catalogUserAgent = "spotify-downloader-bot/1.0"
)

// CatalogClient resolves link references against the Spotify Web API using
// the client-credentials flow. The access token is cached until shortly
// before expiry; refresh is serialized behind a mutex.
type CatalogClient struct {
	clientID     string
	clientSecret string
	http         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewCatalogClient builds a resolver from the bot configuration.
func NewCatalogClient(cfg *Config) (*CatalogClient, error) {
	client, err := NewHTTPClient(catalogTimeout, cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	return &CatalogClient{
		clientID:     cfg.SpotifyClientID,
		clientSecret: cfg.SpotifyClientSecret,
		http:         client,
	}, nil
}

// Resolve fetches metadata for a classified link. Failures map onto the
// package taxonomy: ErrNotFound for missing objects, ErrUpstream for
// transport or auth problems. All are terminal for the interaction.
func (c *CatalogClient) Resolve(ctx context.Context, ref LinkRef) (*Resolved, error) {
	if ref.ID == "" {
		return nil, ErrInvalidLink
	}

	switch ref.Kind {
	case KindTrack:
		track, err := c.resolveTrack(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: KindTrack, Track: track}, nil
	case KindAlbum:
		col, err := c.resolveAlbum(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: KindAlbum, Collection: col}, nil
	case KindPlaylist:
		col, err := c.resolvePlaylist(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: KindPlaylist, Collection: col}, nil
	default:
		return nil, ErrInvalidLink
	}
}

// Raw API shapes. Only the fields the bot consumes are declared.

type rawArtist struct {
	Name string `json:"name"`
}

type rawImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type rawAlbumRef struct {
	Name        string     `json:"name"`
	ReleaseDate string     `json:"release_date"`
	Images      []rawImage `json:"images"`
}

type rawTrack struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Artists    []rawArtist `json:"artists"`
	Album      rawAlbumRef `json:"album"`
	DurationMs int         `json:"duration_ms"`
	Popularity int         `json:"popularity"`
	PreviewURL string      `json:"preview_url"`
}

type rawAlbum struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []rawArtist `json:"artists"`
	ReleaseDate string      `json:"release_date"`
	TotalTracks int         `json:"total_tracks"`
	Images      []rawImage  `json:"images"`
	Tracks      struct {
		Items []rawTrack `json:"items"`
	} `json:"tracks"`
}

type rawPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Images []rawImage `json:"images"`
	Tracks struct {
		Items []struct {
			Track *rawTrack `json:"track"`
		} `json:"items"`
	} `json:"tracks"`
}

func (c *CatalogClient) resolveTrack(ctx context.Context, id string) (*TrackMetadata, error) {
	var raw rawTrack
	if err := c.getJSON(ctx, spotifyAPIBase+"/tracks/"+url.PathEscape(id), &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("track %s: %w", id, ErrNotFound)
	}
	track := mapTrack(raw)
	return &track, nil
}

func (c *CatalogClient) resolveAlbum(ctx context.Context, id string) (*CollectionMetadata, error) {
	var raw rawAlbum
	if err := c.getJSON(ctx, spotifyAPIBase+"/albums/"+url.PathEscape(id), &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("album %s: %w", id, ErrNotFound)
	}

	artwork := bestRawImage(raw.Images)
	tracks := make([]TrackMetadata, 0, len(raw.Tracks.Items))
	for _, item := range raw.Tracks.Items {
		t := mapTrack(item)
		// Album simplified tracks omit the album block; inherit from the container.
		t.Album = strOr(raw.Name, "Unknown")
		t.ReleaseDate = strOr(raw.ReleaseDate, "Unknown")
		if t.ArtworkURL == "" {
			t.ArtworkURL = artwork
		}
		tracks = append(tracks, t)
	}

	return &CollectionMetadata{
		Kind:          KindAlbum,
		ID:            raw.ID,
		Title:         strOr(raw.Name, "Unknown"),
		OwnerOrArtist: joinArtists(raw.Artists),
		ReleaseDate:   strOr(raw.ReleaseDate, "Unknown"),
		ArtworkURL:    artwork,
		Tracks:        tracks,
		TotalTracks:   len(tracks),
	}, nil
}

func (c *CatalogClient) resolvePlaylist(ctx context.Context, id string) (*CollectionMetadata, error) {
	var raw rawPlaylist
	if err := c.getJSON(ctx, spotifyAPIBase+"/playlists/"+url.PathEscape(id), &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}

	tracks := make([]TrackMetadata, 0, len(raw.Tracks.Items))
	for _, item := range raw.Tracks.Items {
		// Removed or local items are not playable tracks; skip them rather
		// than failing the whole resolution.
		if item.Track == nil || item.Track.Type != "track" {
			continue
		}
		tracks = append(tracks, mapTrack(*item.Track))
	}

	return &CollectionMetadata{
		Kind:          KindPlaylist,
		ID:            raw.ID,
		Title:         strOr(raw.Name, "Unknown"),
		OwnerOrArtist: strOr(raw.Owner.DisplayName, "Unknown"),
		Description:   raw.Description,
		ArtworkURL:    bestRawImage(raw.Images),
		Tracks:        tracks,
		TotalTracks:   len(tracks),
	}, nil
}

// mapTrack converts a raw track with defensive defaults: unknown strings
// become "Unknown", missing numerics stay 0, missing artwork stays empty.
func mapTrack(raw rawTrack) TrackMetadata {
	artists := make([]string, 0, len(raw.Artists))
	for _, a := range raw.Artists {
		artists = append(artists, strOr(a.Name, "Unknown"))
	}
	if len(artists) == 0 {
		artists = []string{"Unknown"}
	}

	return TrackMetadata{
		ID:          raw.ID,
		Title:       strOr(raw.Name, "Unknown"),
		Artists:     artists,
		Album:       strOr(raw.Album.Name, "Unknown"),
		DurationMs:  raw.DurationMs,
		ReleaseDate: strOr(raw.Album.ReleaseDate, "Unknown"),
		Popularity:  raw.Popularity,
		PreviewURL:  raw.PreviewURL,
		ArtworkURL:  bestRawImage(raw.Album.Images),
	}
}

func bestRawImage(images []rawImage) string {
	candidates := make([]Image, 0, len(images))
	for _, img := range images {
		candidates = append(candidates, Image{URL: img.URL, Width: img.Width, Height: img.Height})
	}
	return BestImage(candidates)
}

func joinArtists(artists []rawArtist) string {
	if len(artists) == 0 {
		return "Unknown"
	}
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, strOr(a.Name, "Unknown"))
	}
	return strings.Join(names, ", ")
}

func strOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// getJSON performs an authenticated GET and decodes the body into out.
func (c *CatalogClient) getJSON(ctx context.Context, apiURL string, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", catalogUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", apiURL, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: catalog returned %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding catalog response: %v", ErrUpstream, err)
	}
	return nil
}

// accessToken returns a cached client-credentials token, refreshing it
// when less than a minute of validity remains.
func (c *CatalogClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("%w: spotify credentials not configured", ErrUpstream)
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, spotifyTokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: token endpoint returned %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrUpstream, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned no token", ErrUpstream)
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	Logger.Debug("refreshed catalog access token", "expires_in", tok.ExpiresIn)
	return c.token, nil
}
