package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const sqliteBusyTimeoutMS = 5000

// SQLiteLog persists the memory log in a local SQLite database.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (creating if needed) the database at path. WAL mode and a
// single connection keep appends serialized.
func NewSQLiteLog(ctx context.Context, path string) (*SQLiteLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", sqliteBusyTimeoutMS),
		`CREATE TABLE IF NOT EXISTS memory_log (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT    NOT NULL UNIQUE,
			user_text  TEXT    NOT NULL,
			reply_text TEXT    NOT NULL,
			created_at TEXT    NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: init %q: %w", stmt, err)
		}
	}
	return &SQLiteLog{db: db}, nil
}

func (l *SQLiteLog) Append(ctx context.Context, record Record) error {
	record = withDefaults(record)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO memory_log (id, user_text, reply_text, created_at) VALUES (?, ?, ?, ?)`,
		record.ID, record.UserText, record.ReplyText, record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append memory record: %w", err)
	}
	return nil
}

func (l *SQLiteLog) ReadAll(ctx context.Context) (string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id, user_text, reply_text FROM memory_log ORDER BY seq`)
	if err != nil {
		return "", fmt.Errorf("sqlite: query memory log: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserText, &r.ReplyText); err != nil {
			return "", fmt.Errorf("sqlite: scan memory row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("sqlite: iterate memory rows: %w", err)
	}
	return formatAll(records), nil
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
