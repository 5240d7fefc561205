package brain

import (
	"context"
	"errors"
	"fmt"

	"github.com/antoniostano/simhelper/internal/protocol"
)

// FallbackGenerator attempts a primary generator first and falls back on error.
type FallbackGenerator struct {
	primary  Generator
	fallback Generator
}

func NewFallbackGenerator(primary Generator, fallback Generator) *FallbackGenerator {
	return &FallbackGenerator{
		primary:  primary,
		fallback: fallback,
	}
}

// Primary returns the preferred generator used before fallback.
func (g *FallbackGenerator) Primary() Generator {
	if g == nil {
		return nil
	}
	return g.primary
}

// Secondary returns the fallback generator.
func (g *FallbackGenerator) Secondary() Generator {
	if g == nil {
		return nil
	}
	return g.fallback
}

func (g *FallbackGenerator) Generate(ctx context.Context, turns []protocol.Turn) (string, error) {
	if g == nil || g.primary == nil {
		if g != nil && g.fallback != nil {
			return g.fallback.Generate(ctx, turns)
		}
		return "", fmt.Errorf("fallback generator misconfigured")
	}
	reply, err := g.primary.Generate(ctx, turns)
	if err == nil {
		return reply, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", err
	}
	if g.fallback == nil {
		return "", err
	}
	reply, fallbackErr := g.fallback.Generate(ctx, turns)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary generator error: %w; fallback generator error: %v", err, fallbackErr)
	}
	return reply, nil
}
