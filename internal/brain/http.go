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

// HTTPGenerator forwards the conversation to a self-hosted generation
// endpoint. The endpoint receives {"system_prompt", "turns"} and may answer
// with a JSON object carrying the text, or with a plain-text body.
type HTTPGenerator struct {
	url    string
	system string
	client *http.Client
}

type httpGenerateRequest struct {
	SystemPrompt string          `json:"system_prompt,omitempty"`
	Turns        []protocol.Turn `json:"turns"`
}

func NewHTTPGenerator(url, systemPrompt string, client *http.Client) *HTTPGenerator {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPGenerator{
		url:    strings.TrimSpace(url),
		system: systemPrompt,
		client: client,
	}
}

func (a *HTTPGenerator) Generate(ctx context.Context, turns []protocol.Turn) (string, error) {
	payload, err := json.Marshal(httpGenerateRequest{SystemPrompt: a.system, Turns: turns})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(httpReq)
	if err != nil {
		return "", transportError("http brain", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", transportError("http brain", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail := string(body)
		if len(detail) > 4<<10 {
			detail = detail[:4<<10]
		}
		return "", statusError("http brain", res.StatusCode, detail)
	}

	if !gjson.ValidBytes(body) {
		return finalize("http brain", string(body))
	}
	return finalize("http brain", extractText(body))
}

func extractText(body []byte) string {
	parsed := gjson.ParseBytes(body)
	if parsed.Type == gjson.String {
		return parsed.String()
	}
	for _, k := range []string{"reply", "text", "output", "message", "delta"} {
		if v := parsed.Get(k); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}
