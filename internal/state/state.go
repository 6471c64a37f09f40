// Package state implements the bot's JSON-file state store: the offline flag
// and message, the capped mention log, and the owner-managed DND list,
// per-chat autoreplies, and custom commands. The file is loaded once at
// startup and rewritten after every mutation; a failed write is logged and
// the in-memory state remains authoritative until the next successful save.
package state

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MaxMentions is the maximum number of records kept in the mention log.
// Older records are evicted first once the log is full.
const MaxMentions = 10

// MentionRecord is one offline-triggered event. Records are immutable once
// created.
type MentionRecord struct {
	From      string `json:"from"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// CommandKind distinguishes text replies from media replies.
type CommandKind string

const (
	CommandText  CommandKind = "text"
	CommandMedia CommandKind = "media"
)

// CustomCommand is an owner-defined trigger answered while online. For media
// commands Content holds a Telegram file ID and MediaKind records whether it
// is a photo or a document, since the Bot API sends them differently.
type CustomCommand struct {
	Type      CommandKind `json:"type"`
	Content   string      `json:"content"`
	Caption   string      `json:"caption,omitempty"`
	MediaKind string      `json:"media_kind,omitempty"`
}

// botState is the on-disk representation. Mention order is oldest first;
// autoreply keys are chat IDs stored as strings for JSON key safety.
type botState struct {
	Offline        bool            `json:"offline"`
	OfflineMessage string          `json:"offline_message"`
	OfflineUntil   string          `json:"offline_until,omitempty"`
	Mentions       []MentionRecord `json:"mentions"`

	DNDChats      []int64                  `json:"dnd_chats,omitempty"`
	Autoreplies   map[string]string        `json:"specific_autoreplies,omitempty"`
	Commands      map[string]CustomCommand `json:"custom_commands,omitempty"`
	CaseSensitive bool                     `json:"case_sensitive_commands,omitempty"`
}

// Store owns the bot state and serializes access to it. Handlers run on
// separate goroutines, so all reads and mutations go through the mutex.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	st     botState
}

// NewStore creates a Store bound to path and loads any existing state file.
// A missing or corrupt file yields default state and is never fatal.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		path:   path,
		logger: logger.With("component", "state"),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("No state file found, starting fresh", "path", s.path)
		} else {
			s.logger.Error("Failed to read state file, starting fresh", "path", s.path, "error", err)
		}
		s.st = botState{}
		return
	}

	var st botState
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Error("State file is corrupt, starting fresh", "path", s.path, "error", err)
		s.st = botState{}
		return
	}

	if len(st.Mentions) > MaxMentions {
		st.Mentions = st.Mentions[len(st.Mentions)-MaxMentions:]
	}
	s.st = st
	s.logger.Info("State loaded", "path", s.path,
		"offline", st.Offline, "mentions", len(st.Mentions))
}

// save persists the current state. The caller must hold the mutex. A write
// failure is logged; the in-memory state stays authoritative.
func (s *Store) save() {
	data, err := json.MarshalIndent(&s.st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to serialize state", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Error("Failed to save state file", "path", s.path, "error", err)
		return
	}
	s.logger.Debug("State saved", "path", s.path)
}

// SetOffline enables offline mode with the given auto-reply message. A zero
// until means offline indefinitely; otherwise the expiry task flips the bot
// back online once until passes.
func (s *Store) SetOffline(message string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Offline = true
	s.st.OfflineMessage = message
	if until.IsZero() {
		s.st.OfflineUntil = ""
	} else {
		s.st.OfflineUntil = until.UTC().Format(time.RFC3339)
	}
	s.save()
}

// SetOnline disables offline mode and clears any timed window.
func (s *Store) SetOnline() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Offline = false
	s.st.OfflineUntil = ""
	s.save()
}

// IsOffline reports whether offline mode is active.
func (s *Store) IsOffline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Offline
}

// OfflineMessage returns the configured offline auto-reply text.
func (s *Store) OfflineMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.OfflineMessage
}

// OfflineUntil returns the end of the timed offline window, if one is set.
func (s *Store) OfflineUntil() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.OfflineUntil == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.st.OfflineUntil)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExpireOffline flips the bot back online if a timed offline window has
// passed. It reports whether a transition happened.
func (s *Store) ExpireOffline(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.st.Offline || s.st.OfflineUntil == "" {
		return false
	}
	until, err := time.Parse(time.RFC3339, s.st.OfflineUntil)
	if err != nil {
		// Unparseable window: clear it rather than staying offline forever.
		s.logger.Error("Invalid offline_until in state, clearing", "value", s.st.OfflineUntil, "error", err)
		s.st.OfflineUntil = ""
		s.save()
		return false
	}
	if now.Before(until) {
		return false
	}

	s.st.Offline = false
	s.st.OfflineUntil = ""
	s.save()
	return true
}

// RecordMention appends a mention record, evicting the oldest entries beyond
// MaxMentions, and persists the state.
func (s *Store) RecordMention(rec MentionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Mentions = append(s.st.Mentions, rec)
	if len(s.st.Mentions) > MaxMentions {
		s.st.Mentions = s.st.Mentions[len(s.st.Mentions)-MaxMentions:]
	}
	s.save()
}

// Mentions returns a copy of the mention log, oldest first.
func (s *Store) Mentions() []MentionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MentionRecord, len(s.st.Mentions))
	copy(out, s.st.Mentions)
	return out
}

// AddDND adds a chat to the do-not-disturb list. It reports whether the chat
// was newly added.
func (s *Store) AddDND(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.st.DNDChats {
		if id == chatID {
			return false
		}
	}
	s.st.DNDChats = append(s.st.DNDChats, chatID)
	s.save()
	return true
}

// RemoveDND removes a chat from the do-not-disturb list. It reports whether
// the chat was present.
func (s *Store) RemoveDND(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.st.DNDChats {
		if id == chatID {
			s.st.DNDChats = append(s.st.DNDChats[:i], s.st.DNDChats[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// IsDND reports whether a chat is on the do-not-disturb list.
func (s *Store) IsDND(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.st.DNDChats {
		if id == chatID {
			return true
		}
	}
	return false
}

// DNDChats returns the do-not-disturb list, sorted ascending.
func (s *Store) DNDChats() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, len(s.st.DNDChats))
	copy(out, s.st.DNDChats)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetAutoreply sets a per-chat override of the offline message.
func (s *Store) SetAutoreply(chatID int64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Autoreplies == nil {
		s.st.Autoreplies = make(map[string]string)
	}
	s.st.Autoreplies[strconv.FormatInt(chatID, 10)] = message
	s.save()
}

// DeleteAutoreply removes a per-chat autoreply. It reports whether one was set.
func (s *Store) DeleteAutoreply(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(chatID, 10)
	if _, ok := s.st.Autoreplies[key]; !ok {
		return false
	}
	delete(s.st.Autoreplies, key)
	s.save()
	return true
}

// AutoreplyFor returns the per-chat autoreply override for a chat, if set.
func (s *Store) AutoreplyFor(chatID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.st.Autoreplies[strconv.FormatInt(chatID, 10)]
	return msg, ok
}

// Autoreplies returns a copy of all per-chat autoreplies keyed by chat ID.
func (s *Store) Autoreplies() map[int64]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64]string, len(s.st.Autoreplies))
	for k, v := range s.st.Autoreplies {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

// SetCommand stores a custom command under its trigger. The trigger is
// lowercased unless case-sensitive matching is enabled.
func (s *Store) SetCommand(trigger string, cmd CustomCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Commands == nil {
		s.st.Commands = make(map[string]CustomCommand)
	}
	s.st.Commands[s.commandKey(trigger)] = cmd
	s.save()
}

// DeleteCommand removes a custom command. It reports whether it existed.
func (s *Store) DeleteCommand(trigger string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.commandKey(trigger)
	if _, ok := s.st.Commands[key]; !ok {
		return false
	}
	delete(s.st.Commands, key)
	s.save()
	return true
}

// Commands returns a copy of all custom commands keyed by trigger.
func (s *Store) Commands() map[string]CustomCommand {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]CustomCommand, len(s.st.Commands))
	for k, v := range s.st.Commands {
		out[k] = v
	}
	return out
}

// CaseSensitiveCommands reports whether trigger matching is case-sensitive.
func (s *Store) CaseSensitiveCommands() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CaseSensitive
}

// SetCaseSensitiveCommands toggles trigger case sensitivity. Switching to
// insensitive re-normalizes existing trigger keys to lowercase.
func (s *Store) SetCaseSensitiveCommands(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.CaseSensitive = on
	if !on && len(s.st.Commands) > 0 {
		normalized := make(map[string]CustomCommand, len(s.st.Commands))
		for k, v := range s.st.Commands {
			normalized[strings.ToLower(k)] = v
		}
		s.st.Commands = normalized
	}
	s.save()
}

func (s *Store) commandKey(trigger string) string {
	if s.st.CaseSensitive {
		return trigger
	}
	return strings.ToLower(trigger)
}
