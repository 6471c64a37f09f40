// Package config provides configuration loading and validation for the
// awaybot application. Values come from defaults, an optional config.yaml,
// and environment variables (BOT_* plus the bare deployment names SESSION,
// OWNER_ID, TARGET_CHAT_ID, STORAGE_FILE and PORT).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config defines all application configuration parameters.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	State     StateConfig     `mapstructure:"state"`
	Database  DatabaseConfig  `mapstructure:"database"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls log level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds Bot API credentials and the owner identity.
type TelegramConfig struct {
	Token        string `mapstructure:"token"          validate:"required"`
	OwnerID      int64  `mapstructure:"owner_id"       validate:"required,gt=0"`
	TargetChatID int64  `mapstructure:"target_chat_id"`

	// BotInfo is populated at startup from GetMe and is not read from config.
	BotInfo *models.User `mapstructure:"-"`
}

// StateConfig holds the JSON state file location.
type StateConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DatabaseConfig holds the SQLite mention archive location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// HTTPConfig holds the health/control endpoint listen address.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// SchedulerConfig defines the scheduled tasks and their cron expressions.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a single scheduled task with a cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds the user-visible reply texts.
type MessagesConfig struct {
	OfflineDefault     string `mapstructure:"offline_default"      validate:"required"`
	OfflineEnabled     string `mapstructure:"offline_enabled"      validate:"required"`
	OnlineEnabled      string `mapstructure:"online_enabled"       validate:"required"`
	OfflineExpired     string `mapstructure:"offline_expired"      validate:"required"`
	NotAuthorized      string `mapstructure:"not_authorized"       validate:"required"`
	NoMentions         string `mapstructure:"no_mentions"          validate:"required"`
	MentionsHeader     string `mapstructure:"mentions_header"      validate:"required"`
	GeneralError       string `mapstructure:"general_error"        validate:"required"`
	Help               string `mapstructure:"help"                 validate:"required"`
	ForwardNote        string `mapstructure:"forward_note"         validate:"required"`
	UsageOfflineFor      string `mapstructure:"usage_offline_for"       validate:"required"`
	UsageHistory         string `mapstructure:"usage_history"           validate:"required"`
	UsageDND             string `mapstructure:"usage_dnd"               validate:"required"`
	UsageUnDND           string `mapstructure:"usage_undnd"             validate:"required"`
	UsageSetAutoreply    string `mapstructure:"usage_set_autoreply"     validate:"required"`
	UsageDelAutoreply    string `mapstructure:"usage_del_autoreply"     validate:"required"`
	UsageSetCommand      string `mapstructure:"usage_set_command"       validate:"required"`
	UsageSetCommandMedia string `mapstructure:"usage_set_command_media" validate:"required"`
	UsageDelCommand      string `mapstructure:"usage_del_command"       validate:"required"`
	UsageCaseSensitive   string `mapstructure:"usage_case_sensitive"    validate:"required"`
}

// TargetChat returns the chat offline events are forwarded to, falling back
// to the owner when no target is configured.
func (c *TelegramConfig) TargetChat() int64 {
	if c.TargetChatID != 0 {
		return c.TargetChatID
	}
	return c.OwnerID
}

// Load reads configuration from defaults, an optional YAML file, and the
// environment, then validates the result. A missing config file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Hosting platforms inject PORT as a bare number. An explicit
	// BOT_HTTP_ADDR still wins.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BOT_HTTP_ADDR") == "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnvAliases maps the bare environment variable names used by deployment
// platforms onto config keys. SESSION carries the Bot API token; the Bot API
// authenticates with a single token rather than an API_ID/API_HASH pair.
func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("telegram.token", "BOT_TELEGRAM_TOKEN", "SESSION")
	_ = v.BindEnv("telegram.owner_id", "BOT_TELEGRAM_OWNER_ID", "OWNER_ID")
	_ = v.BindEnv("telegram.target_chat_id", "BOT_TELEGRAM_TARGET_CHAT_ID", "TARGET_CHAT_ID")
	_ = v.BindEnv("state.path", "BOT_STATE_PATH", "STORAGE_FILE")
	_ = v.BindEnv("database.path", "BOT_DATABASE_PATH", "DB_PATH")
	_ = v.BindEnv("http.addr", "BOT_HTTP_ADDR")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("state.path", "bot_state.json")
	v.SetDefault("database.path", "storage.db")
	v.SetDefault("http.addr", ":8080")

	v.SetDefault("scheduler.tasks.offline_expiry.enabled", true)
	v.SetDefault("scheduler.tasks.offline_expiry.schedule", "* * * * *")

	v.SetDefault("messages.offline_default", "I'm currently offline. Will reply soon!")
	v.SetDefault("messages.offline_enabled", "Offline mode enabled.\nMessage: %s")
	v.SetDefault("messages.online_enabled", "Online mode enabled. You're now online.")
	v.SetDefault("messages.offline_expired", "Timed offline mode has expired. I am now online.")
	v.SetDefault("messages.not_authorized", "You are not authorized to use this command.")
	v.SetDefault("messages.no_mentions", "No mentions recorded while you were offline.")
	v.SetDefault("messages.mentions_header", "Recent mentions while offline:")
	v.SetDefault("messages.general_error", "An error occurred. Please try again later.")
	v.SetDefault("messages.help", "Hi! I'm an auto-reply bot.\n\nIf my owner is online, I can respond to specific keywords; type /list_commands to see them.\nIf my owner is offline, I'll send an automatic reply.")
	v.SetDefault("messages.forward_note", "Message above was from %s (ID: %d) while you were offline.")
	v.SetDefault("messages.usage_offline_for", "Usage: /offline_for <number> <unit> [message] (units: m, h, d)")
	v.SetDefault("messages.usage_history", "Usage: /history [count]")
	v.SetDefault("messages.usage_dnd", "Usage: /dnd <chat_id>")
	v.SetDefault("messages.usage_undnd", "Usage: /undnd <chat_id>")
	v.SetDefault("messages.usage_set_autoreply", "Usage: /set_autoreply <chat_id> | <message>")
	v.SetDefault("messages.usage_del_autoreply", "Usage: /del_autoreply <chat_id>")
	v.SetDefault("messages.usage_set_command", "Usage: /set_command <trigger> | <reply>")
	v.SetDefault("messages.usage_set_command_media", "Usage: /set_command_media <trigger> | [caption] (reply to media)")
	v.SetDefault("messages.usage_del_command", "Usage: /del_command <trigger>")
	v.SetDefault("messages.usage_case_sensitive", "Usage: /set_case_sensitive <on|off>")
}
