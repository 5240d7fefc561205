package memory

import (
	"context"
	"strings"
)

// Config selects the memory log backend.
type Config struct {
	DatabaseURL string
	SQLitePath  string
	FilePath    string
}

// NewLog picks postgres, then sqlite, then a plain file, then in-memory,
// whichever is configured first.
func NewLog(ctx context.Context, cfg Config) (Log, error) {
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		return NewPostgresLog(ctx, cfg.DatabaseURL)
	case strings.TrimSpace(cfg.SQLitePath) != "":
		return NewSQLiteLog(ctx, cfg.SQLitePath)
	case strings.TrimSpace(cfg.FilePath) != "":
		return NewFileLog(cfg.FilePath)
	default:
		return NewInMemoryLog(), nil
	}
}

// Backend names the storage behind l.
func Backend(l Log) string {
	switch l.(type) {
	case *PostgresLog:
		return "postgres"
	case *SQLiteLog:
		return "sqlite"
	case *FileLog:
		return "file"
	case *InMemoryLog:
		return "in-memory"
	default:
		return "custom"
	}
}
