// Package brain adapts external text-generation services to the Generator
// contract used by the conversation session.
package brain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/antoniostano/simhelper/internal/protocol"
)

// Provider names accepted by NewGenerator.
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderHTTP   = "http"
	ProviderMock   = "mock"
)

// Generator returns the next assistant reply for a conversation. Failures are
// returned as errors wrapping the sentinels in errors.go; an empty reply is
// never returned with a nil error.
type Generator interface {
	Generate(ctx context.Context, turns []protocol.Turn) (string, error)
}

// Config controls generator construction.
type Config struct {
	Provider     string
	Fallback     string
	Model        string
	SystemPrompt string
	MaxTokens    int

	GeminiAPIKey     string
	GeminiBaseURL    string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	HTTPURL          string

	HTTPClient *http.Client
}

// NewGenerator builds the configured provider, wrapped with a fallback
// provider when one is set.
func NewGenerator(cfg Config) (Generator, error) {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = SystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	primaryName := resolveProvider(cfg, cfg.Provider)
	primary, err := newProvider(cfg, primaryName, cfg.Model)
	if err != nil {
		return nil, err
	}

	fallbackName := strings.ToLower(strings.TrimSpace(cfg.Fallback))
	if fallbackName == "" || fallbackName == primaryName {
		return primary, nil
	}
	secondary, err := newProvider(cfg, resolveProvider(cfg, fallbackName), "")
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewFallbackGenerator(primary, secondary), nil
}

// Name reports which provider a generator is backed by.
func Name(g Generator) string {
	switch v := g.(type) {
	case *GeminiGenerator:
		return ProviderGemini
	case *OpenAIGenerator:
		return ProviderOpenAI
	case *ClaudeGenerator:
		return ProviderClaude
	case *HTTPGenerator:
		return ProviderHTTP
	case *MockGenerator:
		return ProviderMock
	case *FallbackGenerator:
		return Name(v.Primary()) + "+" + Name(v.Secondary())
	default:
		return "custom"
	}
}

func resolveProvider(cfg Config, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "" && name != ProviderAuto {
		return name
	}
	switch {
	case cfg.GeminiAPIKey != "":
		return ProviderGemini
	case cfg.OpenAIAPIKey != "":
		return ProviderOpenAI
	case cfg.AnthropicAPIKey != "":
		return ProviderClaude
	case strings.TrimSpace(cfg.HTTPURL) != "":
		return ProviderHTTP
	default:
		return ProviderMock
	}
}

func newProvider(cfg Config, name, model string) (Generator, error) {
	switch name {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
		return NewGeminiGenerator(GeminiConfig{
			APIKey:       cfg.GeminiAPIKey,
			BaseURL:      cfg.GeminiBaseURL,
			Model:        model,
			SystemPrompt: cfg.SystemPrompt,
			MaxTokens:    cfg.MaxTokens,
			Client:       cfg.HTTPClient,
		}), nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model, cfg.SystemPrompt, cfg.MaxTokens), nil
	case ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required for the claude provider")
		}
		return NewClaudeGenerator(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, model, cfg.SystemPrompt, cfg.MaxTokens), nil
	case ProviderHTTP:
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("BRAIN_HTTP_URL is required for the http provider")
		}
		return NewHTTPGenerator(cfg.HTTPURL, cfg.SystemPrompt, cfg.HTTPClient), nil
	case ProviderMock:
		return NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported brain provider %q", name)
	}
}

func finalize(provider, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrEmptyReply)
	}
	return text, nil
}
