package translate

import (
	"context"
	"fmt"
)

// MockTranslator tags text with the destination language. Text bound for
// English is returned unchanged so local runs stay readable.
type MockTranslator struct{}

func NewMockTranslator() *MockTranslator { return &MockTranslator{} }

func (MockTranslator) Translate(ctx context.Context, text, dest, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if dest == English {
		return text, nil
	}
	return fmt.Sprintf("[%s] %s", dest, text), nil
}

// IdentityTranslator returns text unchanged. It backs TRANSLATE_PROVIDER=none
// for English-only deployments.
type IdentityTranslator struct{}

func (IdentityTranslator) Translate(ctx context.Context, text, _, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}
