// Package session holds the process-wide conversation sent to the generative
// backend on every call.
package session

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/antoniostano/simhelper/internal/protocol"
)

// Generator produces the next assistant reply for a conversation.
type Generator interface {
	Generate(ctx context.Context, turns []protocol.Turn) (string, error)
}

var ErrNoGenerator = errors.New("session has no generator")

// Session is an append-only turn sequence. Send is a critical section: turns
// of concurrent callers never interleave.
type Session struct {
	gen   Generator
	sem   *semaphore.Weighted
	turns []protocol.Turn
	count atomic.Int64
}

// Start creates the session. A non-empty seed becomes a single legacy-seed
// user turn carrying the whole blob, whitespace included.
func Start(gen Generator, seed string) *Session {
	s := &Session{
		gen: gen,
		sem: semaphore.NewWeighted(1),
	}
	if seed != "" {
		s.turns = append(s.turns, protocol.Turn{
			Role:    protocol.RoleUser,
			Kind:    protocol.TurnLegacySeed,
			Content: seed,
		})
	}
	s.count.Store(int64(len(s.turns)))
	return s
}

// Send appends the user turn, asks the generator for a reply and appends it.
// On failure neither turn is kept.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	if s.gen == nil {
		return "", ErrNoGenerator
	}
	if err := s.lock(ctx); err != nil {
		return "", err
	}
	defer s.unlock()

	pending := make([]protocol.Turn, len(s.turns), len(s.turns)+1)
	copy(pending, s.turns)
	pending = append(pending, protocol.Turn{Role: protocol.RoleUser, Kind: protocol.TurnMessage, Content: text})

	reply, err := s.gen.Generate(ctx, pending)
	if err != nil {
		return "", err
	}
	s.turns = append(pending, protocol.Turn{Role: protocol.RoleAssistant, Kind: protocol.TurnMessage, Content: reply})
	s.count.Store(int64(len(s.turns)))
	return reply, nil
}

// Turns returns a snapshot of the conversation.
func (s *Session) Turns() []protocol.Turn {
	if err := s.lock(context.Background()); err != nil {
		return nil
	}
	defer s.unlock()
	out := make([]protocol.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns without waiting for an in-flight Send.
func (s *Session) Len() int {
	return int(s.count.Load())
}

func (s *Session) lock(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}

func (s *Session) unlock() { s.sem.Release(1) }
