package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryLog keeps records in process memory for local/dev use and tests.
type InMemoryLog struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryLog(seed ...Record) *InMemoryLog {
	return &InMemoryLog{records: append([]Record(nil), seed...)}
}

func (l *InMemoryLog) Append(_ context.Context, record Record) error {
	record = withDefaults(record)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

func (l *InMemoryLog) ReadAll(_ context.Context) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return formatAll(l.records), nil
}

// Records returns a copy of the stored records.
func (l *InMemoryLog) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record(nil), l.records...)
}

func (l *InMemoryLog) Close() error { return nil }

func withDefaults(record Record) Record {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return record
}
