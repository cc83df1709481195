package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gyomeihajime7-hub/spotify-downloader-bot/backend"
)

// User-facing message templates. All texts are Telegram Markdown; the
// wording is part of the bot's personality and changes rarely, so it
// lives here rather than inline in the handlers.

const msgWelcome = `🎵 *Welcome to Spotify Music Downloader Bot!* 🎵

Hey there! I'm your personal music assistant! 🤖✨

*What can I do?*
• 📱 Download songs from Spotify links
• 📀 Process entire albums and playlists
• 🎛️ Choose audio quality before download
• 🎧 Find music from multiple sources

*How to use:*
1️⃣ Send me any Spotify link (song/album/playlist)
2️⃣ Choose your preferred audio quality
3️⃣ Get your music instantly! 🚀

Ready to discover some music? Try the demo below! 👇`

const msgHelp = `🆘 *Help & Instructions* 🆘

*Supported Links:*
• 🎵 Spotify Songs: ` + "`open.spotify.com/track/...`" + `
• 📀 Spotify Albums: ` + "`open.spotify.com/album/...`" + `
• 📋 Spotify Playlists: ` + "`open.spotify.com/playlist/...`" + `

*How it works:*
1️⃣ Send me a Spotify link
2️⃣ I'll extract the metadata
3️⃣ Choose your preferred quality
4️⃣ I'll find and download the audio
5️⃣ Enjoy your music! 🎊

*Quality Options:*
• 🔥 High Quality (320kbps)
• ⚡ Medium Quality (192kbps)
• 📱 Low Quality (128kbps)

*Tips:*
• Use /start to return to main menu
• Try demo songs to test the bot
• Be patient for large playlists! ⏳

Need more help? Just ask! 😊`

const msgNotALink = "🤔 That doesn't look like a Spotify link!\n\n" +
	"Please send me a valid Spotify link:\n" +
	"• 🎵 Song: `open.spotify.com/track/...`\n" +
	"• 📀 Album: `open.spotify.com/album/...`\n" +
	"• 📋 Playlist: `open.spotify.com/playlist/...`\n\n" +
	"Or try our demo songs! 👇"

const msgAnalyzing = "🔍 *Analyzing Spotify link...*"

const msgResolveFailed = "❌ *Could not fetch metadata*\n\n" +
	"This could happen if:\n" +
	"• The track/album/playlist doesn't exist\n" +
	"• The link is from a different region\n" +
	"• Spotify is temporarily unavailable\n\n" +
	"Please try another link or try again later."

const msgStaleState = "❌ No metadata found. Please try again."

const msgProcessingTrack = "🎵 *Please wait, your music is being processed...*\n" +
	"⏳ *This may take 30-60 seconds*"

const msgUploading = "📤 *Uploading your song...*"

const msgDownloadFailed = "❌ *Download Failed*\n\n" +
	"Could not find or download this track from available sources.\n" +
	"Please try another song or check if the link is valid."

const msgDeliveryFailed = "❌ *Upload Failed*\n\n" +
	"The track was downloaded but could not be delivered.\n" +
	"Please try again in a moment."

const msgNoTracks = "❌ No tracks found in this collection."

const msgDemoHeader = `🎵 *Demo Songs - Try These Popular Tracks!* 🎵

Select any song below to test the bot:
👇 *Click to download:*`

const msgCancelled = "❌ Operation cancelled."

func trackInfoMessage(t *backend.TrackMetadata) string {
	return fmt.Sprintf(`🎵 *Found Track:*
*Title:* %s
*Artist:* %s
*Duration:* %s
*Album:* %s

Please select your preferred audio quality:`,
		t.Title, t.ArtistLine(), backend.FormatDuration(t.DurationMs), t.Album)
}

func collectionInfoMessage(c *backend.CollectionMetadata) string {
	if c.Kind == backend.KindAlbum {
		return fmt.Sprintf(`📀 *Found Album:*
*Title:* %s
*Artist:* %s
*Tracks:* %d songs
*Release Date:* %s

Please select your preferred audio quality:`,
			c.Title, c.OwnerOrArtist, c.TotalTracks, c.ReleaseDate)
	}

	desc := c.Description
	if desc == "" {
		desc = "No description"
	}
	return fmt.Sprintf(`📋 *Found Playlist:*
*Title:* %s
*Owner:* %s
*Tracks:* %d songs
*Description:* %s

Please select your preferred audio quality:`,
		c.Title, c.OwnerOrArtist, c.TotalTracks, desc)
}

func trackCaption(t *backend.TrackMetadata) string {
	return fmt.Sprintf("🎵 *%s*\n👤 *%s*\n📀 *%s*", t.Title, t.ArtistLine(), t.Album)
}

func collectionTrackCaption(t *backend.TrackMetadata, c *backend.CollectionMetadata) string {
	icon := "📋"
	if c.Kind == backend.KindAlbum {
		icon = "📀"
	}
	return fmt.Sprintf("🎵 %s - %s\n%s %s", t.Title, t.ArtistLine(), icon, c.Title)
}

func trackDoneMessage(t *backend.TrackMetadata, quality backend.Quality) string {
	return fmt.Sprintf(`✅ *Download Complete!*

🎵 *Track:* %s
👤 *Artist:* %s
🔊 *Quality:* %s

Enjoy your music! 🎶`,
		t.Title, t.ArtistLine(), titleCase(string(quality)))
}

func collectionProgressMessage(c *backend.CollectionMetadata, trackName string, pos, total int) string {
	kind, icon := "Playlist", "📋"
	if c.Kind == backend.KindAlbum {
		kind, icon = "Album", "📀"
	}
	return fmt.Sprintf(`⬬ *Downloading %s...*

%s *%s*
🎵 Processing: %s
📊 Progress: %d/%d`,
		kind, icon, c.Title, trackName, pos, total)
}

func collectionTruncatedMessage(total, kept int) string {
	return fmt.Sprintf(`⚠️ *Large Playlist Detected*

This playlist has %d tracks.
To prevent spam, I'll download the first %d tracks.

Processing first %d tracks...`, total, kept, kept)
}

func collectionDoneMessage(c *backend.CollectionMetadata, sent, total int, quality backend.Quality) string {
	if c.Kind == backend.KindAlbum {
		return fmt.Sprintf(`✅ *Album Download Complete!*

📀 *Album:* %s
👤 *Artist:* %s
📊 *Downloaded:* %d/%d tracks
🔊 *Quality:* %s

Enjoy your music! 🎶`,
			c.Title, c.OwnerOrArtist, sent, total, titleCase(string(quality)))
	}
	return fmt.Sprintf(`✅ *Playlist Download Complete!*

📋 *Playlist:* %s
📊 *Downloaded:* %d/%d tracks
🔊 *Quality:* %s

Enjoy your music! 🎶`,
		c.Title, sent, total, titleCase(string(quality)))
}

func statusMessage(services map[string]backend.ServiceStatus) string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("🩺 *Service Status*\n\n")
	for _, name := range names {
		icon := "🟢"
		if services[name].Status != "up" {
			icon = "🔴"
		}
		fmt.Fprintf(&b, "%s `%s`\n", icon, name)
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
