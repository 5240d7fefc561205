package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/antoniostano/simhelper/internal/protocol"
)

// MockGenerator provides deterministic local replies when no backend is
// configured.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (g *MockGenerator) Generate(ctx context.Context, turns []protocol.Turn) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return buildMockReply(turns), nil
}

func buildMockReply(turns []protocol.Turn) string {
	question := ""
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == protocol.RoleUser && turns[i].Kind != protocol.TurnLegacySeed {
			question = strings.TrimSpace(turns[i].Content)
			break
		}
	}
	if question == "" {
		question = "your question"
	}

	lines := []string{fmt.Sprintf("- I heard you: %s", question)}
	if len(turns) > 1 {
		lines = append(lines, fmt.Sprintf("- I remember %d earlier messages", len(turns)-1))
	}
	lines = append(lines, "- For serious problems, please consult a doctor")
	return strings.Join(lines, "\n")
}
