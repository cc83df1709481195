package bot

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gyomeihajime7-hub/spotify-downloader-bot/backend"
)

// Flow is the conversation controller: it turns incoming text and button
// presses into catalog lookups, downloads and deliveries. One Flow serves
// all chats; per-chat ordering is the caller's job (see Bot).

const (
	// MaxCollectionTracks caps album/playlist processing per request.
	MaxCollectionTracks = 50

	demoSampleSize   = 6
	thumbnailTimeout = 5 * time.Second
	maxThumbnailSize = 5 << 20
)

// Resolver turns a classified link into typed metadata.
type Resolver interface {
	Resolve(ctx context.Context, ref backend.LinkRef) (*backend.Resolved, error)
}

// AudioFetcher retrieves one track's audio to a local file.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, title, artist string, quality backend.Quality) (*backend.DownloadResult, error)
}

// StatusFunc reports upstream service health for the /status command.
type StatusFunc func() map[string]backend.ServiceStatus

// Flow wires the transport, resolver and downloader into the chat flow.
type Flow struct {
	transport Transport
	resolver  Resolver
	fetcher   AudioFetcher
	sessions  *backend.SessionStore
	demos     *backend.DemoCatalog
	status    StatusFunc
	thumbs    *http.Client
}

// NewFlow builds the controller. status may be nil, which disables /status.
func NewFlow(transport Transport, resolver Resolver, fetcher AudioFetcher,
	sessions *backend.SessionStore, demos *backend.DemoCatalog, status StatusFunc) *Flow {
	return &Flow{
		transport: transport,
		resolver:  resolver,
		fetcher:   fetcher,
		sessions:  sessions,
		demos:     demos,
		status:    status,
		thumbs:    &http.Client{Timeout: thumbnailTimeout},
	}
}

func startKeyboard() Keyboard {
	return Keyboard{
		{{Label: "🎵 Try Demo Songs", Data: "demo_songs"}},
		{{Label: "❓ Help & Instructions", Data: "help"}},
	}
}

func helpKeyboard() Keyboard {
	return Keyboard{
		{{Label: "🏠 Back to Start", Data: "back_start"}},
		{{Label: "🎵 Try Demo", Data: "demo_songs"}},
	}
}

func qualityKeyboard() Keyboard {
	return Keyboard{
		{{Label: "🔥 " + backend.QualityHigh.Label(), Data: "quality_high"}},
		{{Label: "⚡ " + backend.QualityMedium.Label(), Data: "quality_medium"}},
		{{Label: "📱 " + backend.QualityLow.Label(), Data: "quality_low"}},
		{{Label: "❌ Cancel", Data: "cancel"}},
	}
}

func demoKeyboard(tracks []backend.DemoTrack) Keyboard {
	kb := make(Keyboard, 0, len(tracks)+2)
	for i, t := range tracks {
		kb = append(kb, []Button{{
			Label: "🎵 " + t.Name + " - " + t.Artist,
			Data:  "demo_" + strconv.Itoa(i),
		}})
	}
	kb = append(kb, []Button{{Label: "🔄 More Songs", Data: "demo_songs"}})
	kb = append(kb, []Button{{Label: "🏠 Back to Start", Data: "back_start"}})
	return kb
}

// HandleCommand processes a slash command.
func (f *Flow) HandleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		f.send(chatID, msgWelcome, startKeyboard())
	case "help":
		f.send(chatID, msgHelp, helpKeyboard())
	case "status":
		if f.status == nil {
			f.send(chatID, "Status checks are not configured.", nil)
			return
		}
		f.send(chatID, statusMessage(f.status()), nil)
	case "cancel":
		f.sessions.Reset(chatID)
		f.send(chatID, msgCancelled, nil)
	default:
		f.send(chatID, msgNotALink, notALinkKeyboard())
	}
}

// HandleText processes a plain text message: either a recognized music
// link or a gentle correction.
func (f *Flow) HandleText(ctx context.Context, chatID int64, text string) {
	ref, ok := backend.ClassifyLink(text)
	if !ok {
		f.send(chatID, msgNotALink, notALinkKeyboard())
		return
	}

	msgID, err := f.transport.SendText(chatID, msgAnalyzing, nil)
	if err != nil {
		backend.Logger.Error("could not send message", "chat", chatID, "error", err)
		return
	}

	f.sessions.Update(chatID, func(s *backend.Session) {
		s.State = backend.StateLinkReceived
		s.Resolved = nil
	})
	f.presentLink(ctx, chatID, msgID, ref)
}

// presentLink resolves a link and shows the quality picker in place of
// the progress message.
func (f *Flow) presentLink(ctx context.Context, chatID int64, messageID int, ref backend.LinkRef) {
	resolved, err := f.resolver.Resolve(ctx, ref)
	if err != nil {
		backend.Logger.Warn("link resolution failed",
			"chat", chatID, "kind", ref.Kind, "id", ref.ID, "error", err)
		f.edit(chatID, messageID, msgResolveFailed, nil)
		// Resolution failures are recoverable: the next link starts fresh.
		f.sessions.Reset(chatID)
		return
	}

	var info string
	if resolved.Kind == backend.KindTrack {
		info = trackInfoMessage(resolved.Track)
	} else {
		info = collectionInfoMessage(resolved.Collection)
	}

	f.sessions.Update(chatID, func(s *backend.Session) {
		s.State = backend.StateQualityPending
		s.Resolved = resolved
	})
	f.edit(chatID, messageID, info, qualityKeyboard())
}

// HandleCallback processes an inline button press. The callback is always
// acknowledged so the client stops showing a spinner.
func (f *Flow) HandleCallback(ctx context.Context, chatID int64, messageID int, callbackID, data string) {
	if err := f.transport.AnswerCallback(callbackID); err != nil {
		backend.Logger.Debug("callback answer failed", "chat", chatID, "error", err)
	}

	switch {
	case data == "demo_songs":
		f.showDemoSongs(chatID, messageID)
	case data == "help":
		f.edit(chatID, messageID, msgHelp, helpKeyboard())
	case data == "back_start":
		f.edit(chatID, messageID, msgWelcome, startKeyboard())
	case data == "cancel":
		f.sessions.Reset(chatID)
		f.edit(chatID, messageID, msgCancelled, nil)
	case strings.HasPrefix(data, "demo_"):
		f.handleDemoPick(ctx, chatID, messageID, strings.TrimPrefix(data, "demo_"))
	case strings.HasPrefix(data, "quality_"):
		f.handleQualityPick(ctx, chatID, messageID, strings.TrimPrefix(data, "quality_"))
	default:
		backend.Logger.Debug("unknown callback", "chat", chatID, "data", data)
	}
}

func (f *Flow) showDemoSongs(chatID int64, messageID int) {
	tracks := f.demos.Sample(demoSampleSize)
	f.sessions.Update(chatID, func(s *backend.Session) {
		s.DemoTracks = tracks
	})
	f.edit(chatID, messageID, msgDemoHeader, demoKeyboard(tracks))
}

// handleDemoPick downloads a demo selection immediately at medium quality.
func (f *Flow) handleDemoPick(ctx context.Context, chatID int64, messageID int, indexToken string) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		backend.Logger.Debug("bad demo index", "chat", chatID, "token", indexToken)
		return
	}

	sess := f.sessions.Snapshot(chatID)
	if index < 0 || index >= len(sess.DemoTracks) {
		f.edit(chatID, messageID, msgStaleState, nil)
		return
	}
	demo := sess.DemoTracks[index]

	f.edit(chatID, messageID, "🔍 *Processing demo track...*", nil)

	track := f.resolveDemoTrack(ctx, demo)
	f.sessions.Update(chatID, func(s *backend.Session) {
		s.State = backend.StateDownloading
		s.Resolved = &backend.Resolved{Kind: backend.KindTrack, Track: track}
		s.Quality = backend.QualityMedium
	})
	f.downloadTrack(ctx, chatID, messageID, track, backend.QualityMedium)
}

// resolveDemoTrack tries the catalog first and falls back to the seed
// entry's own name and artist, so demos work without catalog credentials.
func (f *Flow) resolveDemoTrack(ctx context.Context, demo backend.DemoTrack) *backend.TrackMetadata {
	if ref, ok := backend.ClassifyLink(demo.SpotifyURL); ok {
		if resolved, err := f.resolver.Resolve(ctx, ref); err == nil && resolved.Track != nil {
			return resolved.Track
		}
	}
	return &backend.TrackMetadata{
		Title:   demo.Name,
		Artists: []string{demo.Artist},
	}
}

func (f *Flow) handleQualityPick(ctx context.Context, chatID int64, messageID int, qualityToken string) {
	quality, ok := backend.ParseQuality(qualityToken)
	if !ok {
		backend.Logger.Debug("unknown quality token", "chat", chatID, "token", qualityToken)
		return
	}

	sess := f.sessions.Snapshot(chatID)
	if sess.State != backend.StateQualityPending || sess.Resolved == nil {
		// Typically a button press that survived a restart.
		f.edit(chatID, messageID, msgStaleState, nil)
		f.sessions.Update(chatID, func(s *backend.Session) {
			s.State = backend.StateFailed
		})
		return
	}
	resolved := sess.Resolved

	f.sessions.Update(chatID, func(s *backend.Session) {
		s.State = backend.StateDownloading
		s.Quality = quality
	})

	if resolved.Kind == backend.KindTrack {
		f.downloadTrack(ctx, chatID, messageID, resolved.Track, quality)
	} else {
		f.downloadCollection(ctx, chatID, messageID, resolved.Collection, quality)
	}
}

// downloadTrack runs the waterfall for one track and delivers the result.
// The temp file is removed whether or not delivery succeeds.
func (f *Flow) downloadTrack(ctx context.Context, chatID int64, messageID int, track *backend.TrackMetadata, quality backend.Quality) {
	f.edit(chatID, messageID, msgProcessingTrack, nil)

	result, err := f.fetcher.FetchAudio(ctx, track.Title, track.PrimaryArtist(), quality)
	if err != nil {
		backend.Logger.Warn("track download failed",
			"chat", chatID, "title", track.Title, "artist", track.PrimaryArtist(), "error", err)
		f.edit(chatID, messageID, msgDownloadFailed, nil)
		f.sessions.Update(chatID, func(s *backend.Session) {
			s.State = backend.StateFailed
		})
		return
	}
	defer f.removeFile(result.FilePath)

	f.edit(chatID, messageID, msgUploading, nil)

	if err := f.transport.SendAudio(chatID, Audio{
		FilePath:        result.FilePath,
		Title:           track.Title,
		Performer:       track.ArtistLine(),
		DurationSeconds: track.DurationSeconds(),
		Caption:         trackCaption(track),
		Thumbnail:       f.fetchThumbnail(track.ArtworkURL),
	}); err != nil {
		backend.Logger.Error("audio delivery failed",
			"chat", chatID, "title", track.Title, "error", err)
		f.edit(chatID, messageID, msgDeliveryFailed, nil)
		f.sessions.Update(chatID, func(s *backend.Session) {
			s.State = backend.StateFailed
		})
		return
	}

	f.edit(chatID, messageID, trackDoneMessage(track, quality), nil)
	f.sessions.Update(chatID, func(s *backend.Session) {
		s.State = backend.StateDelivered
	})
}

// downloadCollection processes an album or playlist track by track.
// Individual failures are skipped; the final report shows the tally.
func (f *Flow) downloadCollection(ctx context.Context, chatID int64, messageID int, col *backend.CollectionMetadata, quality backend.Quality) {
	if len(col.Tracks) == 0 {
		f.edit(chatID, messageID, msgNoTracks, nil)
		f.sessions.Update(chatID, func(s *backend.Session) {
			s.State = backend.StateFailed
		})
		return
	}

	originalTotal := col.TotalTracks
	if col.Truncate(MaxCollectionTracks) {
		// Announce the cap before any track is processed.
		f.edit(chatID, messageID, collectionTruncatedMessage(originalTotal, MaxCollectionTracks), nil)
	}

	total := len(col.Tracks)
	sent := 0
	for i := range col.Tracks {
		track := &col.Tracks[i]
		f.edit(chatID, messageID, collectionProgressMessage(col, track.Title, i+1, total), nil)

		result, err := f.fetcher.FetchAudio(ctx, track.Title, track.PrimaryArtist(), quality)
		if err != nil {
			backend.Logger.Warn("collection track failed",
				"chat", chatID, "collection", col.Title, "title", track.Title, "error", err)
			continue
		}

		err = f.transport.SendAudio(chatID, Audio{
			FilePath:        result.FilePath,
			Title:           track.Title,
			Performer:       track.ArtistLine(),
			DurationSeconds: track.DurationSeconds(),
			Caption:         collectionTrackCaption(track, col),
		})
		f.removeFile(result.FilePath)
		if err != nil {
			backend.Logger.Error("collection track delivery failed",
				"chat", chatID, "title", track.Title, "error", err)
			continue
		}
		sent++
	}

	f.edit(chatID, messageID, collectionDoneMessage(col, sent, total, quality), nil)
	f.sessions.Update(chatID, func(s *backend.Session) {
		if sent > 0 {
			s.State = backend.StateDelivered
		} else {
			s.State = backend.StateFailed
		}
	})
}

// fetchThumbnail downloads artwork for the audio message. Any failure
// just means the message goes out without a thumbnail.
func (f *Flow) fetchThumbnail(artworkURL string) []byte {
	if artworkURL == "" {
		return nil
	}

	resp, err := f.thumbs.Get(artworkURL)
	if err != nil {
		backend.Logger.Debug("artwork fetch failed", "url", artworkURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailSize))
	if err != nil {
		return nil
	}
	return data
}

func notALinkKeyboard() Keyboard {
	return Keyboard{{{Label: "🎵 Try Demo Songs", Data: "demo_songs"}}}
}

func (f *Flow) send(chatID int64, text string, keyboard Keyboard) {
	if _, err := f.transport.SendText(chatID, text, keyboard); err != nil {
		backend.Logger.Error("could not send message", "chat", chatID, "error", err)
	}
}

func (f *Flow) edit(chatID int64, messageID int, text string, keyboard Keyboard) {
	if err := f.transport.EditText(chatID, messageID, text, keyboard); err != nil {
		backend.Logger.Debug("could not edit message",
			"chat", chatID, "message", messageID, "error", err)
	}
}

func (f *Flow) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		backend.Logger.Warn("could not remove temp file", "path", path, "error", err)
	}
}
