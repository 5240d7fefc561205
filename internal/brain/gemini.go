package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/antoniostano/simhelper/internal/protocol"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiConfig configures the Gemini REST generator.
type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Client       *http.Client
}

// GeminiGenerator calls the generateContent endpoint. The system instruction
// is fixed at construction and attached to every request body.
type GeminiGenerator struct {
	apiKey   string
	endpoint string
	client   *http.Client
	system   *geminiContent
	genCfg   *geminiGenerationConfig
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

func NewGeminiGenerator(cfg GeminiConfig) *GeminiGenerator {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultGeminiBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	g := &GeminiGenerator{
		apiKey:   cfg.APIKey,
		endpoint: fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, model),
		client:   client,
	}
	if strings.TrimSpace(cfg.SystemPrompt) != "" {
		g.system = &geminiContent{Parts: []geminiPart{{Text: cfg.SystemPrompt}}}
	}
	if cfg.MaxTokens > 0 {
		g.genCfg = &geminiGenerationConfig{MaxOutputTokens: cfg.MaxTokens}
	}
	return g
}

func (g *GeminiGenerator) Generate(ctx context.Context, turns []protocol.Turn) (string, error) {
	contents := make([]geminiContent, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == protocol.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: t.Content}}})
	}
	payload, err := json.Marshal(geminiRequest{
		Contents:          contents,
		SystemInstruction: g.system,
		GenerationConfig:  g.genCfg,
	})
	if err != nil {
		return "", fmt.Errorf("gemini marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	res, err := g.client.Do(req)
	if err != nil {
		return "", transportError("gemini", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", transportError("gemini", err)
	}
	if res.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", statusError("gemini", res.StatusCode, msg)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("gemini: %w", ErrMalformedResponse)
	}
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "", fmt.Errorf("gemini blocked prompt (%s): %w", reason, ErrRejected)
	}

	var out strings.Builder
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts.#.text").Array() {
		out.WriteString(part.String())
	}
	return finalize("gemini", out.String())
}
