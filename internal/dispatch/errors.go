package dispatch

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage rejects requests whose message is blank after trimming.
var ErrEmptyMessage = errors.New("empty message")

// Source names the upstream capability that failed.
type Source string

const (
	SourceTranslation Source = "translation"
	SourceGenerative  Source = "generative"
)

// InputError is returned for requests rejected before classification.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "invalid input: " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// UpstreamError is returned when translation or generation fails. No memory
// record is written for the request.
type UpstreamError struct {
	Source Source
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream failed: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError describes a failed memory append. It is reported on the
// operational channel only; the requester still gets the reply.
type PersistenceError struct {
	RecordID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("memory append %s failed: %v", e.RecordID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
