package protocol

import (
	"errors"
	"testing"
)

func TestParseChatRequestDefaultsLang(t *testing.T) {
	req, err := ParseChatRequest([]byte(`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("ParseChatRequest() error = %v", err)
	}
	if req.Message != "hello" {
		t.Fatalf("Message = %q, want %q", req.Message, "hello")
	}
	if req.Lang != DefaultLang {
		t.Fatalf("Lang = %q, want %q", req.Lang, DefaultLang)
	}
}

func TestParseChatRequestKeepsExplicitLang(t *testing.T) {
	req, err := ParseChatRequest([]byte(`{"message":"salut","lang":" fr "}`))
	if err != nil {
		t.Fatalf("ParseChatRequest() error = %v", err)
	}
	if req.Lang != "fr" {
		t.Fatalf("Lang = %q, want fr", req.Lang)
	}
}

func TestParseChatRequestEmptyBody(t *testing.T) {
	req, err := ParseChatRequest(nil)
	if err != nil {
		t.Fatalf("ParseChatRequest() error = %v", err)
	}
	if req.Message != "" || req.Lang != DefaultLang {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestParseChatRequestRejectsMalformedJSON(t *testing.T) {
	_, err := ParseChatRequest([]byte(`{"message":`))
	if !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("error = %v, want ErrMalformedRequest", err)
	}
}
