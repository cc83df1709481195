package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gyomeihajime7-hub/spotify-downloader-bot/backend"
)

// Keep-alive HTTP server. Hosting platforms that sleep idle services ping
// these endpoints; the bot itself never talks to them.

const statusPage = `<html>
    <head>
        <title>Spotify Downloader Bot</title>
        <style>
            body { font-family: Arial, sans-serif; margin: 40px; background: #1DB954; color: white; }
            .container { max-width: 600px; margin: 0 auto; text-align: center; }
            .status { background: rgba(255,255,255,0.1); padding: 20px; border-radius: 10px; }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>🎵 Spotify Downloader Bot</h1>
            <div class="status">
                <h2>✅ Bot is running successfully!</h2>
                <p>Your Telegram bot is active and ready to download music.</p>
            </div>
        </div>
    </body>
</html>`

// Server is the keep-alive HTTP server.
type Server struct {
	app      *fiber.App
	config   *backend.Config
	statusFn func() map[string]backend.ServiceStatus
}

// NewServer creates the server and registers its routes. statusFn may be
// nil, in which case /api/status reports an empty map.
func NewServer(config *backend.Config, statusFn func() map[string]backend.ServiceStatus) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Spotify Downloader Bot",
		ServerHeader:          "SpotifyDownloaderBot",
		DisableStartupMessage: true,
	})

	server := &Server{app: app, config: config, statusFn: statusFn}

	app.Use(recover.New())
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.handleHome)
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/api/status", s.handleStatus)
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(statusPage)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "spotify-downloader-bot",
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	services := map[string]backend.ServiceStatus{}
	if s.statusFn != nil {
		services = s.statusFn()
	}
	return c.JSON(fiber.Map{"services": services})
}

// Start listens on the configured port. It blocks until the server stops.
func (s *Server) Start() error {
	addr := ":" + s.config.Port
	backend.Logger.Info("keep-alive server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
