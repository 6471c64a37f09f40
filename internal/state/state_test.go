package state_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/awaybot/internal/state"
)

func newTestStore(t *testing.T) (*state.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot_state.json")
	return state.NewStore(path, nil), path
}

func TestStoreDefaults(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	if s.IsOffline() {
		t.Error("new store should start online")
	}
	if got := s.OfflineMessage(); got != "" {
		t.Errorf("expected empty offline message, got %q", got)
	}
	if got := s.Mentions(); len(got) != 0 {
		t.Errorf("expected empty mention log, got %d entries", len(got))
	}
	if _, ok := s.OfflineUntil(); ok {
		t.Error("expected no offline window on a fresh store")
	}
}

func TestStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bot_state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	s := state.NewStore(path, nil)
	if s.IsOffline() {
		t.Error("corrupt file should yield default online state")
	}
	if len(s.Mentions()) != 0 {
		t.Error("corrupt file should yield empty mention log")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)

	s.SetOffline("be right back", time.Time{})
	s.RecordMention(state.MentionRecord{From: "alice", Text: "ping", Timestamp: "2025-01-02T03:04:05Z"})
	s.RecordMention(state.MentionRecord{From: "bob", Text: "pong", Timestamp: "2025-01-02T03:05:05Z"})
	s.AddDND(42)
	s.SetAutoreply(7, "custom message")
	s.SetCommand("Hours", state.CustomCommand{Type: state.CommandText, Content: "9 to 5"})

	reloaded := state.NewStore(path, nil)

	if !reloaded.IsOffline() {
		t.Error("offline flag not persisted")
	}
	if got := reloaded.OfflineMessage(); got != "be right back" {
		t.Errorf("offline message = %q, want %q", got, "be right back")
	}

	mentions := reloaded.Mentions()
	if len(mentions) != 2 {
		t.Fatalf("mention log length = %d, want 2", len(mentions))
	}
	if mentions[0].From != "alice" || mentions[1].From != "bob" {
		t.Errorf("mention order not preserved: %+v", mentions)
	}

	if !reloaded.IsDND(42) {
		t.Error("DND chat not persisted")
	}
	if msg, ok := reloaded.AutoreplyFor(7); !ok || msg != "custom message" {
		t.Errorf("autoreply not persisted, got %q (ok=%t)", msg, ok)
	}
	if _, ok := reloaded.Commands()["hours"]; !ok {
		t.Errorf("custom command not persisted (case-insensitive key expected): %v", reloaded.Commands())
	}
}

func TestStoreMentionCap(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	for i := 0; i < 15; i++ {
		s.RecordMention(state.MentionRecord{
			From:      fmt.Sprintf("user%d", i),
			Text:      "hello",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	mentions := s.Mentions()
	if len(mentions) != state.MaxMentions {
		t.Fatalf("mention log length = %d, want %d", len(mentions), state.MaxMentions)
	}
	// Oldest evicted first: record 0..4 gone, 5..14 remain in order.
	if mentions[0].From != "user5" {
		t.Errorf("oldest surviving record = %q, want user5", mentions[0].From)
	}
	if mentions[len(mentions)-1].From != "user14" {
		t.Errorf("newest record = %q, want user14", mentions[len(mentions)-1].From)
	}
}

func TestStoreOfflineToggleSequences(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		sequence []bool // true = offline, false = online
		want     bool
	}{
		{name: "single offline", sequence: []bool{true}, want: true},
		{name: "offline then online", sequence: []bool{true, false}, want: false},
		{name: "repeated offline", sequence: []bool{true, true, true}, want: true},
		{name: "alternating ends online", sequence: []bool{true, false, true, false}, want: false},
		{name: "alternating ends offline", sequence: []bool{false, true, false, true}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStore(t)
			for _, offline := range tc.sequence {
				if offline {
					s.SetOffline("away", time.Time{})
				} else {
					s.SetOnline()
				}
			}
			if got := s.IsOffline(); got != tc.want {
				t.Errorf("final offline flag = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestStoreExpireOffline(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("online store does not expire", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		if s.ExpireOffline(now) {
			t.Error("expected no transition on an online store")
		}
	})

	t.Run("indefinite offline does not expire", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		s.SetOffline("away", time.Time{})
		if s.ExpireOffline(now) {
			t.Error("expected no transition without a timed window")
		}
		if !s.IsOffline() {
			t.Error("store should remain offline")
		}
	})

	t.Run("future window does not expire", func(t *testing.T) {
		t.Parallel()
		s, _ := newTestStore(t)
		s.SetOffline("away", now.Add(time.Hour))
		if s.ExpireOffline(now) {
			t.Error("expected no transition before the deadline")
		}
	})

	t.Run("past window expires", func(t *testing.T) {
		t.Parallel()
		s, path := newTestStore(t)
		s.SetOffline("away", now.Add(-time.Minute))
		if !s.ExpireOffline(now) {
			t.Fatal("expected transition after the deadline")
		}
		if s.IsOffline() {
			t.Error("store should be online after expiry")
		}
		if reloaded := state.NewStore(path, nil); reloaded.IsOffline() {
			t.Error("expiry was not persisted")
		}
	})
}

func TestStoreDND(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	if !s.AddDND(10) {
		t.Error("first add should report true")
	}
	if s.AddDND(10) {
		t.Error("duplicate add should report false")
	}
	s.AddDND(5)

	if got := s.DNDChats(); len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Errorf("DNDChats = %v, want [5 10]", got)
	}
	if !s.RemoveDND(10) {
		t.Error("remove of present chat should report true")
	}
	if s.RemoveDND(10) {
		t.Error("remove of absent chat should report false")
	}
	if s.IsDND(10) {
		t.Error("removed chat still on DND list")
	}
	if !s.IsDND(5) {
		t.Error("remaining chat missing from DND list")
	}
}

func TestStoreAutoreplies(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	s.SetAutoreply(1, "one")
	s.SetAutoreply(2, "two")

	if msg, ok := s.AutoreplyFor(1); !ok || msg != "one" {
		t.Errorf("AutoreplyFor(1) = %q, %t", msg, ok)
	}
	if _, ok := s.AutoreplyFor(3); ok {
		t.Error("AutoreplyFor(3) should report not set")
	}
	if !s.DeleteAutoreply(1) {
		t.Error("delete of set autoreply should report true")
	}
	if s.DeleteAutoreply(1) {
		t.Error("delete of unset autoreply should report false")
	}
	if got := s.Autoreplies(); len(got) != 1 || got[2] != "two" {
		t.Errorf("Autoreplies = %v, want map[2:two]", got)
	}
}

func TestStoreCommandCaseSensitivity(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	// Case-insensitive by default: triggers are stored lowercased.
	s.SetCommand("Hello", state.CustomCommand{Type: state.CommandText, Content: "hi"})
	if _, ok := s.Commands()["hello"]; !ok {
		t.Errorf("expected lowercased trigger, got %v", s.Commands())
	}
	if !s.DeleteCommand("HELLO") {
		t.Error("case-insensitive delete should find the trigger")
	}

	s.SetCaseSensitiveCommands(true)
	s.SetCommand("Hello", state.CustomCommand{Type: state.CommandText, Content: "hi"})
	if _, ok := s.Commands()["Hello"]; !ok {
		t.Errorf("expected case-preserved trigger, got %v", s.Commands())
	}
	if s.DeleteCommand("hello") {
		t.Error("case-sensitive delete should not match a different case")
	}

	// Switching back re-normalizes existing keys.
	s.SetCaseSensitiveCommands(false)
	if _, ok := s.Commands()["hello"]; !ok {
		t.Errorf("expected re-normalized trigger after toggle, got %v", s.Commands())
	}
}
