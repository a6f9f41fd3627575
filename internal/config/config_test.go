package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(tempConfigPath(t))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.GetServerURL() != DefaultServerURL {
		t.Errorf("got server URL %q, want default", cfg.GetServerURL())
	}
	if cfg.HasToken() {
		t.Error("fresh config should have no token")
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := tempConfigPath(t)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	cfg.SetServerURL("http://chat.example.edu:16000")
	cfg.SetToken("tok-123")
	cfg.SetNotificationsEnabled(true)
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if loaded.GetServerURL() != "http://chat.example.edu:16000" {
		t.Errorf("server URL = %q", loaded.GetServerURL())
	}
	if loaded.GetToken() != "tok-123" {
		t.Errorf("token = %q, want tok-123", loaded.GetToken())
	}
	if !loaded.GetNotificationsEnabled() {
		t.Error("notifications flag lost in roundtrip")
	}
}

func TestLoadFrom_RejectsBadScheme(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte(`{"server_url": "ftp://nope"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("non-http server URL should be rejected")
	}
}

func TestGetServerURL_TrimsTrailingSlash(t *testing.T) {
	cfg := &Config{ServerURL: "http://localhost:16000/"}
	if got := cfg.GetServerURL(); got != "http://localhost:16000" {
		t.Errorf("got %q, want trailing slash trimmed", got)
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:16000", "ws://localhost:16000/ws"},
		{"https://chat.example.edu", "wss://chat.example.edu/ws"},
		{"http://localhost:16000/", "ws://localhost:16000/ws"},
	}
	for _, tt := range tests {
		cfg := &Config{ServerURL: tt.server}
		if got := cfg.WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL(%q) = %q, want %q", tt.server, got, tt.want)
		}
	}
}

func TestClearToken(t *testing.T) {
	cfg := &Config{Token: "tok"}
	if !cfg.HasToken() {
		t.Fatal("HasToken should report true")
	}
	cfg.ClearToken()
	if cfg.HasToken() {
		t.Error("token survived ClearToken")
	}
}
