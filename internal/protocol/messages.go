package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnKind separates real exchanges from the replayed history blob.
type TurnKind string

const (
	TurnMessage TurnKind = "message"
	// TurnLegacySeed carries the raw memory log replayed at startup. It is
	// sent to backends as a user turn but never reinterpreted as discrete turns.
	TurnLegacySeed TurnKind = "legacy_seed"
)

// Turn is a single entry of the conversation sent to a generative backend.
type Turn struct {
	Role    Role     `json:"role"`
	Kind    TurnKind `json:"kind,omitempty"`
	Content string   `json:"content"`
}

// DefaultLang is the reply language when the client omits one.
const DefaultLang = "en"

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message string `json:"message"`
	Lang    string `json:"lang"`
}

// ChatResponse is returned on success.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is returned on failure. Code is empty for input errors so the
// body stays {"error": "..."} for existing clients.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var ErrMalformedRequest = errors.New("malformed chat request")

// ParseChatRequest decodes a chat payload and applies the default language.
func ParseChatRequest(raw []byte) (ChatRequest, error) {
	var req ChatRequest
	if len(strings.TrimSpace(string(raw))) == 0 {
		return ChatRequest{Lang: DefaultLang}, nil
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return ChatRequest{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	req.Lang = strings.TrimSpace(req.Lang)
	if req.Lang == "" {
		req.Lang = DefaultLang
	}
	return req, nil
}
