package brain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/antoniostano/simhelper/internal/protocol"
	"github.com/antoniostano/simhelper/internal/reliability"
)

func TestGeminiGeneratorSendsSystemInstructionAndRoles(t *testing.T) {
	var got geminiRequest
	var gotPath, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  - Rest\n"},{"text":"- Drink water  "}]}}]}`))
	}))
	defer ts.Close()

	g := NewGeminiGenerator(GeminiConfig{APIKey: "k", BaseURL: ts.URL, SystemPrompt: "be brief", MaxTokens: 64})
	reply, err := g.Generate(context.Background(), []protocol.Turn{
		{Role: protocol.RoleUser, Kind: protocol.TurnLegacySeed, Content: "User: hi\nHelperBot: hello\n\n"},
		{Role: protocol.RoleUser, Content: "headache"},
		{Role: protocol.RoleAssistant, Content: "- rest"},
		{Role: protocol.RoleUser, Content: "still hurts"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "- Rest\n- Drink water" {
		t.Fatalf("reply = %q", reply)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "k" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction = %+v", got.SystemInstruction)
	}
	if got.GenerationConfig == nil || got.GenerationConfig.MaxOutputTokens != 64 {
		t.Fatalf("generation config = %+v", got.GenerationConfig)
	}
	roles := make([]string, 0, len(got.Contents))
	for _, c := range got.Contents {
		roles = append(roles, c.Role)
	}
	if strings.Join(roles, ",") != "user,user,model,user" {
		t.Fatalf("roles = %v", roles)
	}
}

func TestGeminiGeneratorClassifiesFailures(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		want      error
		retryable bool
	}{
		{"rate limit", 429, `{"error":{"message":"quota"}}`, ErrRateLimited, true},
		{"unavailable", 503, `{"error":{"message":"down"}}`, ErrUnavailable, true},
		{"bad request", 400, `{"error":{"message":"bad"}}`, ErrRejected, false},
		{"blocked", 200, `{"promptFeedback":{"blockReason":"SAFETY"}}`, ErrRejected, false},
		{"empty", 200, `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`, ErrEmptyReply, false},
		{"malformed", 200, `not json`, ErrMalformedResponse, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			g := NewGeminiGenerator(GeminiConfig{APIKey: "k", BaseURL: ts.URL})
			_, err := g.Generate(context.Background(), []protocol.Turn{{Role: protocol.RoleUser, Content: "hi"}})
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if got := reliability.IsRetryable(err); got != tc.retryable {
				t.Fatalf("IsRetryable() = %v, want %v", got, tc.retryable)
			}
		})
	}
}

func TestGeminiGeneratorTransportFailureIsRetryable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	g := NewGeminiGenerator(GeminiConfig{APIKey: "k", BaseURL: url})
	_, err := g.Generate(context.Background(), []protocol.Turn{{Role: protocol.RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrUnavailable) || !reliability.IsRetryable(err) {
		t.Fatalf("error = %v, want retryable ErrUnavailable", err)
	}
}
