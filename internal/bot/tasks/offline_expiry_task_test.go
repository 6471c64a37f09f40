package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/awaybot/internal/bot/tasks"
	"github.com/edgard/awaybot/internal/config"
	"github.com/edgard/awaybot/internal/state"
)

func newTaskDeps(t *testing.T, notify tasks.NotifyFunc) tasks.TaskDeps {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return tasks.TaskDeps{
		Logger: logger,
		Config: &config.Config{
			Messages: config.MessagesConfig{OfflineExpired: "Timed offline mode ended."},
		},
		State:  state.NewStore(filepath.Join(t.TempDir(), "state.json"), logger),
		Notify: notify,
	}
}

func TestOfflineExpiryTask(t *testing.T) {
	t.Parallel()

	var notified []string
	deps := newTaskDeps(t, func(_ context.Context, text string) error {
		notified = append(notified, text)
		return nil
	})

	task, ok := tasks.RegisterAllTasks(deps)["offline_expiry"]
	if !ok {
		t.Fatal("offline_expiry task not registered")
	}

	// Online: nothing to expire.
	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned error: %v", err)
	}
	if len(notified) != 0 {
		t.Fatalf("expected no notifications while online, got %d", len(notified))
	}

	// Expired window: flips online and notifies once.
	deps.State.SetOffline("away", time.Now().Add(-time.Minute))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned error: %v", err)
	}
	if deps.State.IsOffline() {
		t.Error("expected state to be online after expiry")
	}
	if len(notified) != 1 || notified[0] != "Timed offline mode ended." {
		t.Errorf("unexpected notifications: %v", notified)
	}

	// Running again is a no-op.
	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned error: %v", err)
	}
	if len(notified) != 1 {
		t.Errorf("expected no further notifications, got %d", len(notified))
	}
}

func TestOfflineExpiryTaskFutureDeadline(t *testing.T) {
	t.Parallel()

	deps := newTaskDeps(t, func(context.Context, string) error {
		t.Error("notify should not be called before the deadline")
		return nil
	})
	deps.State.SetOffline("away", time.Now().Add(time.Hour))

	task := tasks.RegisterAllTasks(deps)["offline_expiry"]
	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned error: %v", err)
	}
	if !deps.State.IsOffline() {
		t.Error("expected state to stay offline before the deadline")
	}
}

func TestOfflineExpiryTaskNotifyFailure(t *testing.T) {
	t.Parallel()

	deps := newTaskDeps(t, func(context.Context, string) error {
		return errors.New("send failed")
	})
	deps.State.SetOffline("away", time.Now().Add(-time.Minute))

	task := tasks.RegisterAllTasks(deps)["offline_expiry"]
	if err := task(context.Background()); err != nil {
		t.Fatalf("notify failure should not fail the task, got: %v", err)
	}
	if deps.State.IsOffline() {
		t.Error("expected state to be online even when notify fails")
	}
}

func TestOfflineExpiryTaskNilNotify(t *testing.T) {
	t.Parallel()

	deps := newTaskDeps(t, nil)
	deps.State.SetOffline("away", time.Now().Add(-time.Minute))

	task := tasks.RegisterAllTasks(deps)["offline_expiry"]
	if err := task(context.Background()); err != nil {
		t.Fatalf("task returned error: %v", err)
	}
	if deps.State.IsOffline() {
		t.Error("expected state to be online after expiry")
	}
}
