package journal

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one delivery attempt of a reminder to a single chat.
type Entry struct {
	CycleID  string
	Deadline string
	ChatID   int64
	OK       bool
	Error    string // empty when OK
	SentAt   time.Time
}

// Journal records delivery attempts. It never stores deadline state.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	RecentForChat(ctx context.Context, chatID int64, limit int) ([]Entry, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Nop is a Journal that keeps nothing. Used when the journal is disabled.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) RecentForChat(context.Context, int64, int) ([]Entry, error) { return nil, nil }

func (Nop) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func (Nop) Close() error { return nil }

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
