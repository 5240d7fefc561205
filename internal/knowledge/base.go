// Package knowledge holds the curated question/answer table and the generic
// app guide served when an app-related question misses the table.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a canonical question and its curated English answer.
type Entry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Base is an immutable knowledge table. Declaration order is preserved and is
// the tie-break order used by the matcher.
type Base struct {
	entries []Entry
	index   map[string]int
	guide   string
}

var (
	ErrDuplicateQuestion = errors.New("duplicate knowledge question")
	ErrEmptyQuestion     = errors.New("empty knowledge question")
	ErrEmptyGuide        = errors.New("default app guide is empty")
)

// New builds a Base. Questions are normalized; duplicates after normalization
// are rejected.
func New(entries []Entry, guide string) (*Base, error) {
	if strings.TrimSpace(guide) == "" {
		return nil, ErrEmptyGuide
	}
	b := &Base{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		guide:   guide,
	}
	for _, e := range entries {
		q := Normalize(e.Question)
		if q == "" {
			return nil, ErrEmptyQuestion
		}
		if _, dup := b.index[q]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateQuestion, q)
		}
		b.index[q] = len(b.entries)
		b.entries = append(b.entries, Entry{Question: q, Answer: e.Answer})
	}
	return b, nil
}

// Get returns the answer stored for a normalized question.
func (b *Base) Get(question string) (string, bool) {
	i, ok := b.index[question]
	if !ok {
		return "", false
	}
	return b.entries[i].Answer, true
}

// Keys returns the questions in declaration order.
func (b *Base) Keys() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Question
	}
	return out
}

// Len reports the number of entries.
func (b *Base) Len() int { return len(b.entries) }

// DefaultGuide returns the generic app guidance answer.
func (b *Base) DefaultGuide() string { return b.guide }

type fileFormat struct {
	DefaultGuide string  `yaml:"default_guide"`
	Entries      []Entry `yaml:"entries"`
}

// LoadFile reads a YAML knowledge table. A missing default_guide falls back to
// DefaultAppGuide.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse knowledge file: %w", err)
	}
	if strings.TrimSpace(f.DefaultGuide) == "" {
		f.DefaultGuide = DefaultAppGuide
	}
	return New(f.Entries, f.DefaultGuide)
}
