package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLog persists the memory log in PostgreSQL.
type PostgresLog struct {
	pool *pgxpool.Pool
}

func NewPostgresLog(ctx context.Context, databaseURL string) (*PostgresLog, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresLog{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memory_log (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			user_text TEXT NOT NULL,
			reply_text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (l *PostgresLog) Append(ctx context.Context, record Record) error {
	record = withDefaults(record)
	_, err := l.pool.Exec(ctx,
		`INSERT INTO memory_log (id, user_text, reply_text, created_at) VALUES ($1, $2, $3, $4)`,
		record.ID,
		record.UserText,
		record.ReplyText,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append memory record: %w", err)
	}
	return nil
}

func (l *PostgresLog) ReadAll(ctx context.Context) (string, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, user_text, reply_text, created_at FROM memory_log ORDER BY seq`,
	)
	if err != nil {
		return "", fmt.Errorf("query memory log: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserText, &r.ReplyText, &r.CreatedAt); err != nil {
			return "", fmt.Errorf("scan memory row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate memory rows: %w", err)
	}
	return formatAll(records), nil
}

func (l *PostgresLog) Close() error {
	l.pool.Close()
	return nil
}
