package handlers

import (
	"log/slog"
	"time"

	"github.com/edgard/awaybot/internal/config"
	"github.com/edgard/awaybot/internal/database"
	"github.com/edgard/awaybot/internal/state"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	State     *state.Store
	Archive   database.Store
	StartedAt time.Time
}
