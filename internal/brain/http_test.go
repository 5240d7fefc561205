package brain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/antoniostano/simhelper/internal/protocol"
)

func TestHTTPGeneratorJSONReply(t *testing.T) {
	var got httpGenerateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"text":" - Hydrate "}`))
	}))
	defer ts.Close()

	g := NewHTTPGenerator(ts.URL, "sys", nil)
	reply, err := g.Generate(context.Background(), []protocol.Turn{{Role: protocol.RoleUser, Content: "thirsty"}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "- Hydrate" {
		t.Fatalf("reply = %q", reply)
	}
	if got.SystemPrompt != "sys" || len(got.Turns) != 1 || got.Turns[0].Content != "thirsty" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestHTTPGeneratorPlainTextReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("- plain answer\n"))
	}))
	defer ts.Close()

	reply, err := NewHTTPGenerator(ts.URL, "", nil).Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "- plain answer" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestHTTPGeneratorEmptyJSONIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"usage":{}}`))
	}))
	defer ts.Close()

	_, err := NewHTTPGenerator(ts.URL, "", nil).Generate(context.Background(), nil)
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("error = %v, want ErrEmptyReply", err)
	}
}

func TestHTTPGeneratorStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewHTTPGenerator(ts.URL, "", nil).Generate(context.Background(), nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}
