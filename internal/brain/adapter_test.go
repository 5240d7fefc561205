package brain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/antoniostano/simhelper/internal/protocol"
)

func TestNewGeneratorAutoFallsBackToMock(t *testing.T) {
	g, err := NewGenerator(Config{Provider: "auto"})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if Name(g) != ProviderMock {
		t.Fatalf("Name() = %q, want mock", Name(g))
	}
	reply, err := g.Generate(context.Background(), []protocol.Turn{{Role: protocol.RoleUser, Content: "hello"}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(reply, "I heard you: hello") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestNewGeneratorAutoPrefersGemini(t *testing.T) {
	g, err := NewGenerator(Config{GeminiAPIKey: "g", OpenAIAPIKey: "o"})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if Name(g) != ProviderGemini {
		t.Fatalf("Name() = %q, want gemini", Name(g))
	}
}

func TestNewGeneratorWithFallback(t *testing.T) {
	g, err := NewGenerator(Config{Provider: "openai", OpenAIAPIKey: "o", Fallback: "mock"})
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	if Name(g) != "openai+mock" {
		t.Fatalf("Name() = %q, want openai+mock", Name(g))
	}
	fb, ok := g.(*FallbackGenerator)
	if !ok {
		t.Fatalf("NewGenerator() = %T, want *FallbackGenerator", g)
	}
	if _, ok := fb.Primary().(*OpenAIGenerator); !ok {
		t.Fatalf("Primary() = %T, want *OpenAIGenerator", fb.Primary())
	}
	if _, ok := fb.Secondary().(*MockGenerator); !ok {
		t.Fatalf("Secondary() = %T, want *MockGenerator", fb.Secondary())
	}
}

func TestNewGeneratorRequiresCredentials(t *testing.T) {
	for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderHTTP} {
		if _, err := NewGenerator(Config{Provider: p}); err == nil {
			t.Fatalf("NewGenerator(%q) expected error without credentials", p)
		}
	}
	if _, err := NewGenerator(Config{Provider: "nope"}); err == nil {
		t.Fatalf("NewGenerator() expected error for unknown provider")
	}
}

func TestMockGeneratorSkipsLegacySeed(t *testing.T) {
	reply, err := NewMockGenerator().Generate(context.Background(), []protocol.Turn{
		{Role: protocol.RoleUser, Kind: protocol.TurnLegacySeed, Content: "User: old\n"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(reply, "old") {
		t.Fatalf("mock reply echoed seed blob: %q", reply)
	}
}

func TestFallbackGeneratorUsesFallback(t *testing.T) {
	g := NewFallbackGenerator(errGenerator{}, okGenerator{text: "fallback"})
	reply, err := g.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "fallback" {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestFallbackGeneratorSkipsFallbackOnCanceledContext(t *testing.T) {
	fb := &countingGenerator{text: "fallback"}
	g := NewFallbackGenerator(cancelGenerator{}, fb)
	_, err := g.Generate(context.Background(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if fb.calls != 0 {
		t.Fatalf("fallback should not be called, calls = %d", fb.calls)
	}
}

func TestFallbackGeneratorKeepsPrimaryError(t *testing.T) {
	g := NewFallbackGenerator(errGenerator{}, errGenerator{})
	_, err := g.Generate(context.Background(), nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want wrapped primary error", err)
	}
}

type errGenerator struct{}

func (errGenerator) Generate(context.Context, []protocol.Turn) (string, error) {
	return "", ErrUnavailable
}

type okGenerator struct {
	text string
}

func (g okGenerator) Generate(context.Context, []protocol.Turn) (string, error) {
	return g.text, nil
}

type cancelGenerator struct{}

func (cancelGenerator) Generate(context.Context, []protocol.Turn) (string, error) {
	return "", context.Canceled
}

type countingGenerator struct {
	text  string
	calls int
}

func (g *countingGenerator) Generate(context.Context, []protocol.Turn) (string, error) {
	g.calls++
	return g.text, nil
}
