// Package tasks implements scheduled tasks for the awaybot application,
// including task definitions, dependencies, and registration.
package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/awaybot/internal/config"
	"github.com/edgard/awaybot/internal/state"
)

// NotifyFunc delivers a message to the owner. Keeping it a function value
// decouples tasks from the Telegram client.
type NotifyFunc func(ctx context.Context, text string) error

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	State  *state.Store
	Notify NotifyFunc
}
