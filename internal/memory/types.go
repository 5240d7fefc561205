// Package memory is the durable transcript of answered requests. It is read
// once at startup to seed the conversation and appended to after every reply.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Record stores one answered request.
type Record struct {
	ID        string    `json:"id"`
	UserText  string    `json:"user_text"`
	ReplyText string    `json:"reply_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is an append-only record store. Append must be atomic per record;
// ReadAll returns every record rendered with Format, in write order.
type Log interface {
	Append(ctx context.Context, record Record) error
	ReadAll(ctx context.Context) (string, error)
	Close() error
}

// Format renders a record as two labeled lines and a blank separator.
func Format(r Record) string {
	return fmt.Sprintf("User: %s\nHelperBot: %s\n\n", r.UserText, r.ReplyText)
}

func formatAll(records []Record) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(Format(r))
	}
	return b.String()
}
