package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultServerURL is used when the config file does not name a server.
const DefaultServerURL = "http://localhost:16000"

// Config holds the application configuration, including the persisted
// bearer token used to re-authenticate the realtime connection and all
// HTTP calls.
type Config struct {
	ServerURL            string `json:"server_url"`
	Token                string `json:"token,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".campuschat"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path. Used by tests.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		ServerURL: DefaultServerURL,
		filePath:  path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL %q must be http or https", c.ServerURL)
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Token lives in this file, keep it private to the user.
	return os.WriteFile(c.filePath, data, 0600)
}

// GetServerURL returns the HTTP base URL of the chat server
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimRight(c.ServerURL, "/")
}

// SetServerURL overrides the server URL (e.g. from a CLI flag)
func (c *Config) SetServerURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = u
}

// WebSocketURL derives the realtime endpoint from the server URL
func (c *Config) WebSocketURL() string {
	base := c.GetServerURL()
	if strings.HasPrefix(base, "https://") {
		return "wss://" + strings.TrimPrefix(base, "https://") + "/ws"
	}
	return "ws://" + strings.TrimPrefix(base, "http://") + "/ws"
}

// GetToken returns the stored bearer token, empty when logged out
func (c *Config) GetToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Token
}

// SetToken stores a bearer token (login, or passive rotation via the
// Authorization response header)
func (c *Config) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Token = token
}

// ClearToken removes the stored token (logout, or session invalidation)
func (c *Config) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Token = ""
}

// HasToken reports whether a token is stored
func (c *Config) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Token != ""
}

// GetNotificationsEnabled returns whether desktop notifications are on
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled toggles desktop notifications
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
