package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for mention archive operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMention inserts a new archived mention record.
	SaveMention(ctx context.Context, mention *Mention) error

	// RecentMentions retrieves the most recent 'limit' archived mentions,
	// newest first.
	RecentMentions(ctx context.Context, limit int) ([]Mention, error)

	// CountMentions returns the total number of archived mentions.
	CountMentions(ctx context.Context) (int64, error)
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx. It requires a
// connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "archive"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveMention(ctx context.Context, mention *Mention) error {
	if mention == nil {
		return fmt.Errorf("cannot save nil mention")
	}
	if mention.ChatID == 0 {
		return fmt.Errorf("mention must have a non-zero chat_id")
	}
	if mention.Timestamp.IsZero() {
		return fmt.Errorf("mention must have a non-zero timestamp")
	}

	mention.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO mention_log (chat_id, user_id, sender, content, timestamp, created_at)
        VALUES (:chat_id, :user_id, :sender, :content, :timestamp, :created_at);
    `
	if _, err := s.db.NamedExecContext(ctx, query, mention); err != nil {
		s.logger.ErrorContext(ctx, "Error archiving mention",
			"chat_id", mention.ChatID, "user_id", mention.UserID, "error", err)
		return fmt.Errorf("failed to archive mention (chat %d, user %d): %w",
			mention.ChatID, mention.UserID, err)
	}
	return nil
}

func (s *sqlxStore) RecentMentions(ctx context.Context, limit int) ([]Mention, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var mentions []Mention
	query := `
        SELECT id, created_at, chat_id, user_id, sender, content, timestamp
        FROM mention_log
        ORDER BY timestamp DESC, id DESC
        LIMIT ?;
    `
	if err := s.db.SelectContext(ctx, &mentions, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching recent mentions", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to fetch recent mentions: %w", err)
	}
	return mentions, nil
}

func (s *sqlxStore) CountMentions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM mention_log;`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting mentions", "error", err)
		return 0, fmt.Errorf("failed to count mentions: %w", err)
	}
	return count, nil
}
