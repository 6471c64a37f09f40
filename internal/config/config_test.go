package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edgard/awaybot/internal/config"
)

// setRequiredEnv sets the minimum environment for a valid configuration.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION", "123456:test-token")
	t.Setenv("OWNER_ID", "1000")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.OwnerID != 1000 {
		t.Errorf("owner id = %d, want 1000", cfg.Telegram.OwnerID)
	}
	if cfg.State.Path != "bot_state.json" {
		t.Errorf("state path = %q, want bot_state.json", cfg.State.Path)
	}
	if cfg.Database.Path != "storage.db" {
		t.Errorf("database path = %q, want storage.db", cfg.Database.Path)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Log.Level != "info" || !cfg.Log.JSON {
		t.Errorf("log defaults = %q/%t, want info/true", cfg.Log.Level, cfg.Log.JSON)
	}
	if cfg.Messages.OfflineDefault != "I'm currently offline. Will reply soon!" {
		t.Errorf("default offline message = %q", cfg.Messages.OfflineDefault)
	}
	if cfg.Messages.UsageDND != "Usage: /dnd <chat_id>" {
		t.Errorf("default dnd usage = %q", cfg.Messages.UsageDND)
	}
	if cfg.Messages.UsageHistory == "" || cfg.Messages.UsageDelCommand == "" {
		t.Error("usage message defaults missing")
	}

	task, ok := cfg.Scheduler.Tasks["offline_expiry"]
	if !ok || !task.Enabled || task.Schedule != "* * * * *" {
		t.Errorf("offline_expiry task defaults = %+v (ok=%t)", task, ok)
	}
}

func TestLoadEnvAliases(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TARGET_CHAT_ID", "-100200300")
	t.Setenv("STORAGE_FILE", "/tmp/state.json")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Telegram.TargetChatID != -100200300 {
		t.Errorf("target chat id = %d, want -100200300", cfg.Telegram.TargetChatID)
	}
	if cfg.State.Path != "/tmp/state.json" {
		t.Errorf("state path = %q, want /tmp/state.json", cfg.State.Path)
	}
}

func TestLoadPlatformPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "10000")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Addr != ":10000" {
		t.Errorf("http addr = %q, want :10000", cfg.HTTP.Addr)
	}
}

func TestLoadExplicitAddrBeatsPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "10000")
	t.Setenv("BOT_HTTP_ADDR", "127.0.0.1:9999")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9999" {
		t.Errorf("http addr = %q, want the explicit BOT_HTTP_ADDR", cfg.HTTP.Addr)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"OWNER_ID": "1000"}},
		{name: "missing owner", env: map[string]string{"SESSION": "123456:test-token"}},
		{name: "non-positive owner", env: map[string]string{"SESSION": "123456:test-token", "OWNER_ID": "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := config.Load(""); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("log:\n  level: debug\n  json: false\nhttp:\n  addr: \":9090\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.JSON {
		t.Errorf("log config = %q/%t, want debug/false", cfg.Log.Level, cfg.Log.JSON)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("http addr = %q, want :9090", cfg.HTTP.Addr)
	}
}

func TestTargetChatFallback(t *testing.T) {
	t.Parallel()

	tg := config.TelegramConfig{OwnerID: 1000}
	if got := tg.TargetChat(); got != 1000 {
		t.Errorf("TargetChat fallback = %d, want owner 1000", got)
	}

	tg.TargetChatID = -42
	if got := tg.TargetChat(); got != -42 {
		t.Errorf("TargetChat = %d, want -42", got)
	}
}
