// Package translate converts text between the caller's language and English.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// English is the language every curated and generated answer is written in.
const English = "en"

// Provider names accepted by NewTranslator.
const (
	ProviderAuto   = "auto"
	ProviderGoogle = "google"
	ProviderLibre  = "libre"
	ProviderMock   = "mock"
	ProviderNone   = "none"
)

// Translator is an external translation capability. An empty src means
// "detect". Implementations never return the input unchanged to signal failure.
type Translator interface {
	Translate(ctx context.Context, text, dest, src string) (string, error)
}

var (
	ErrUnavailable       = errors.New("translation service unavailable")
	ErrRejected          = errors.New("translation request rejected")
	ErrEmptyTranslation  = errors.New("translation service returned empty text")
	ErrMalformedResponse = errors.New("translation service returned malformed response")
)

// Gateway applies the English short-circuit rules around a Translator.
type Gateway struct {
	t Translator
}

func NewGateway(t Translator) *Gateway {
	return &Gateway{t: t}
}

// ToEnglish translates input of any language into English. srcHint may be
// empty for auto-detection; a hint of "en" skips the call.
func (g *Gateway) ToEnglish(ctx context.Context, text, srcHint string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(srcHint), English) {
		return text, nil
	}
	return g.t.Translate(ctx, text, English, strings.TrimSpace(srcHint))
}

// FromEnglish translates an English answer into target. Target "en" is the
// identity and never reaches the translator. Other codes are forwarded as-is.
func (g *Gateway) FromEnglish(ctx context.Context, text, target string) (string, error) {
	if target == English {
		return text, nil
	}
	return g.t.Translate(ctx, text, target, English)
}

// Config controls translator construction.
type Config struct {
	Provider  string
	URL       string
	APIKey    string
	CacheSize int

	HTTPClient *http.Client
}

// NewTranslator builds the configured translator, cached when CacheSize > 0.
func NewTranslator(cfg Config) (Translator, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == ProviderAuto {
		switch {
		case strings.TrimSpace(cfg.URL) != "":
			provider = ProviderLibre
		case cfg.APIKey != "":
			provider = ProviderGoogle
		default:
			provider = ProviderMock
		}
	}

	var t Translator
	switch provider {
	case ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, errors.New("TRANSLATE_API_KEY is required for the google provider")
		}
		t = NewGoogleTranslator(cfg.URL, cfg.APIKey, cfg.HTTPClient)
	case ProviderLibre:
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("TRANSLATE_URL is required for the libre provider")
		}
		t = NewLibreTranslator(cfg.URL, cfg.APIKey, cfg.HTTPClient)
	case ProviderMock:
		t = NewMockTranslator()
	case ProviderNone:
		return IdentityTranslator{}, nil
	default:
		return nil, fmt.Errorf("unsupported translate provider %q", cfg.Provider)
	}

	if cfg.CacheSize > 0 {
		cached, err := NewCachedTranslator(t, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return t, nil
}

// Name reports which provider backs t.
func Name(t Translator) string {
	switch v := t.(type) {
	case *GoogleTranslator:
		return ProviderGoogle
	case *LibreTranslator:
		return ProviderLibre
	case *MockTranslator:
		return ProviderMock
	case IdentityTranslator:
		return ProviderNone
	case *CachedTranslator:
		return Name(v.inner) + "+cache"
	default:
		return "custom"
	}
}
