// Package config handles the configuration directory, its files and the
// optional TOML settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"gtodo/internal/kvstore"
)

const (
	// AppName is the application directory name.
	AppName = "gtodo"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// SettingsFile is the TOML settings filename.
	SettingsFile = "config.toml"

	// StoreFile is the key-value store filename.
	StoreFile = "storage.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings is the decoded settings file.
	Settings Settings

	// Log is the process logger. Never nil after New.
	Log *log.Logger
}

// Settings is the content of config.toml.
type Settings struct {
	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `toml:"log_level"`

	OAuth OAuthSettings `toml:"oauth"`
}

// OAuthSettings holds the OAuth client identifiers, one per platform.
type OAuthSettings struct {
	// ClientIDs maps a GOOS value (linux, darwin, windows) or "default" to a
	// client ID.
	ClientIDs map[string]string `toml:"client_ids"`

	// ClientSecret is the secret shared by the installed-app clients.
	ClientSecret string `toml:"client_secret"`
}

// ClientID returns the client ID for the running platform, falling back to
// the "default" entry.
func (o OAuthSettings) ClientID() string {
	if id := strings.TrimSpace(o.ClientIDs[runtime.GOOS]); id != "" {
		return id
	}
	return strings.TrimSpace(o.ClientIDs["default"])
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/gtodo or $HOME/.config/gtodo.
// A missing settings file is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Log: log.New(io.Discard)}

	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadSettings decodes the TOML settings file at path.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return s, nil
}

// Logger returns c.Log, or a discarding logger if none was set.
func (c *Config) Logger() *log.Logger {
	if c.Log == nil {
		return log.New(io.Discard)
	}
	return c.Log
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// StorePath returns the path to the key-value store file.
func (c *Config) StorePath() string {
	return filepath.Join(c.Dir, StoreFile)
}

// OpenStore returns the key-value store in the config directory.
func (c *Config) OpenStore() *kvstore.FileStore {
	return kvstore.Open(c.StorePath())
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}
