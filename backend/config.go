package backend

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Bot configuration. Values come from three layers, later ones winning:
// built-in defaults, an optional config.ini, then environment variables.
// A .env file, if present, is folded into the environment first.

type Config struct {
	TelegramToken       string
	SpotifyClientID     string
	SpotifyClientSecret string
	JamendoClientID     string
	ProxyURL            string
	Port                string
	TempDir             string
	SourcePriority      []string
	LogLevel            string
}

// DefaultSourcePriority is the waterfall order used when none is configured.
var DefaultSourcePriority = []string{"youtube", "archive", "jamendo", "fma"}

func defaultConfig() *Config {
	return &Config{
		Port:           "8080",
		TempDir:        os.TempDir(),
		SourcePriority: append([]string(nil), DefaultSourcePriority...),
		LogLevel:       "info",
	}
}

// LoadConfig builds the effective configuration. iniPath may be empty, in
// which case "config.ini" is tried; a missing file is not an error.
func LoadConfig(iniPath string) (*Config, error) {
	// Fold .env into the process environment, like the hosting platforms do.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if iniPath == "" {
		iniPath = "config.ini"
	}
	if _, err := os.Stat(iniPath); err == nil {
		if err := cfg.applyINI(iniPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", iniPath, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyINI(path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return err
	}

	bot := f.Section("bot")
	if v := bot.Key("token").String(); v != "" {
		c.TelegramToken = v
	}
	if v := bot.Key("log_level").String(); v != "" {
		c.LogLevel = v
	}
	if v := bot.Key("port").String(); v != "" {
		c.Port = v
	}

	spotify := f.Section("spotify")
	if v := spotify.Key("client_id").String(); v != "" {
		c.SpotifyClientID = v
	}
	if v := spotify.Key("client_secret").String(); v != "" {
		c.SpotifyClientSecret = v
	}

	sources := f.Section("sources")
	if v := sources.Key("priority").String(); v != "" {
		c.SourcePriority = splitList(v)
	}
	if v := sources.Key("jamendo_client_id").String(); v != "" {
		c.JamendoClientID = v
	}

	download := f.Section("download")
	if v := download.Key("temp_dir").String(); v != "" {
		c.TempDir = v
	}
	if v := download.Key("proxy_url").String(); v != "" {
		c.ProxyURL = v
	}

	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.SpotifyClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.SpotifyClientSecret = v
	}
	if v := os.Getenv("JAMENDO_CLIENT_ID"); v != "" {
		c.JamendoClientID = v
	}
	if v := os.Getenv("PROXY_URL"); v != "" {
		c.ProxyURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("SOURCE_PRIORITY"); v != "" {
		c.SourcePriority = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that the configuration can start the bot at all.
// Only a missing Telegram token is fatal; missing catalog credentials
// degrade features but do not prevent startup.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.SpotifyClientID == "" || c.SpotifyClientSecret == "" {
		Logger.Warn("spotify credentials not set, link resolution will fail")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
