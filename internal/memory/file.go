package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileLog appends human-readable records to a text file. Each record is
// written with a single write call under a mutex.
type FileLog struct {
	mu   sync.Mutex
	path string
}

func NewFileLog(path string) (*FileLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("memory file: create directory %s: %w", dir, err)
		}
	}
	return &FileLog{path: path}, nil
}

func (l *FileLog) Append(_ context.Context, record Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("memory file: open: %w", err)
	}
	if _, err := f.WriteString(Format(record)); err != nil {
		_ = f.Close()
		return fmt.Errorf("memory file: append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("memory file: close: %w", err)
	}
	return nil
}

func (l *FileLog) ReadAll(_ context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("memory file: read: %w", err)
	}
	return string(data), nil
}

func (l *FileLog) Close() error { return nil }
