package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/antoniostano/simhelper/internal/protocol"
	"github.com/antoniostano/simhelper/internal/reliability"
)

const defaultClaudeModel = "claude-3-5-haiku-latest"

// ClaudeGenerator uses the Anthropic messages API.
type ClaudeGenerator struct {
	client    *anthropic.Client
	model     string
	system    string
	maxTokens int
}

func NewClaudeGenerator(apiKey, baseURL, model, systemPrompt string, maxTokens int) *ClaudeGenerator {
	var opts []anthropic.ClientOption
	if base := strings.TrimSpace(baseURL); base != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimRight(base, "/")))
	}
	if strings.TrimSpace(model) == "" {
		model = defaultClaudeModel
	}
	return &ClaudeGenerator{
		client:    anthropic.NewClient(apiKey, opts...),
		model:     model,
		system:    systemPrompt,
		maxTokens: maxTokens,
	}
}

func (c *ClaudeGenerator) Generate(ctx context.Context, turns []protocol.Turn) (string, error) {
	messages := make([]anthropic.Message, 0, len(turns))
	for _, t := range turns {
		role := anthropic.RoleUser
		if t.Role == protocol.RoleAssistant {
			role = anthropic.RoleAssistant
		}
		messages = append(messages, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(t.Content)},
		})
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		Messages:  messages,
		MaxTokens: c.maxTokens,
		System:    c.system,
	})
	if err != nil {
		return "", classifyClaudeError(err)
	}

	var out strings.Builder
	for _, content := range resp.Content {
		out.WriteString(content.GetText())
	}
	return finalize("claude", out.String())
}

func classifyClaudeError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch string(apiErr.Type) {
		case "rate_limit_error":
			return fmt.Errorf("claude: %w: %w: %v", ErrRateLimited, reliability.ErrRetryable, err)
		case "overloaded_error", "api_error":
			return fmt.Errorf("claude: %w: %w: %v", ErrUnavailable, reliability.ErrRetryable, err)
		default:
			return fmt.Errorf("claude: %w: %v", ErrRejected, err)
		}
	}
	return transportError("claude", err)
}
