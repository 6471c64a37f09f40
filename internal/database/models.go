package database

import "time"

// Mention is one archived offline-triggered event. The archive is append-only
// and, unlike the JSON state file's mention log, is not capped.
type Mention struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Sender    string    `db:"sender"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}
