package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

// SQLite implements Journal using an embedded SQLite database.
type SQLite struct{ db *sql.DB }

// OpenSQLite opens (or creates) the journal database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns the journal.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (j *SQLite) Close() error {
	return j.db.Close()
}

// Record appends one delivery attempt.
func (j *SQLite) Record(ctx context.Context, e Entry) error {
	sentAt := e.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO deliveries (cycle_id, deadline, chat_id, ok, error, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.CycleID, e.Deadline, e.ChatID, boolToInt(e.OK), toNullString(e.Error), sentAt.UTC().Unix(),
	)
	return err
}

// RecentForChat returns up to limit attempts for chatID, newest first.
func (j *SQLite) RecentForChat(ctx context.Context, chatID int64, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT cycle_id, deadline, chat_id, ok, error, sent_at
		FROM deliveries
		WHERE chat_id = ?
		ORDER BY sent_at DESC, id DESC
		LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Entry
	for rows.Next() {
		var (
			e      Entry
			okInt  int
			errStr sql.NullString
			sentAt int64
		)
		if err := rows.Scan(&e.CycleID, &e.Deadline, &e.ChatID, &okInt, &errStr, &sentAt); err != nil {
			return nil, err
		}
		e.OK = okInt != 0
		e.Error = errStr.String
		e.SentAt = time.Unix(sentAt, 0).Local()
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Prune deletes attempts recorded strictly before the given time.
func (j *SQLite) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx, `DELETE FROM deliveries WHERE sent_at < ?`, before.UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
