package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/antoniostano/simhelper/internal/reliability"
)

const defaultGoogleURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleTranslator calls the Cloud Translation v2 REST API.
type GoogleTranslator struct {
	url    string
	apiKey string
	client *http.Client
}

func NewGoogleTranslator(url, apiKey string, client *http.Client) *GoogleTranslator {
	url = strings.TrimSpace(url)
	if url == "" {
		url = defaultGoogleURL
	}
	return &GoogleTranslator{url: url, apiKey: apiKey, client: client}
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, dest, src string) (string, error) {
	payload := map[string]string{"q": text, "target": dest, "format": "text"}
	if src != "" {
		payload["source"] = src
	}
	body, err := postJSON(ctx, g.client, g.url, payload, map[string]string{"X-Goog-Api-Key": g.apiKey})
	if err != nil {
		return "", err
	}
	return pick(body, "data.translations.0.translatedText")
}

// LibreTranslator calls a LibreTranslate-compatible /translate endpoint.
type LibreTranslator struct {
	url    string
	apiKey string
	client *http.Client
}

func NewLibreTranslator(baseURL, apiKey string, client *http.Client) *LibreTranslator {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasSuffix(base, "/translate") {
		base += "/translate"
	}
	return &LibreTranslator{url: base, apiKey: apiKey, client: client}
}

func (l *LibreTranslator) Translate(ctx context.Context, text, dest, src string) (string, error) {
	if src == "" {
		src = "auto"
	}
	payload := map[string]string{"q": text, "source": src, "target": dest, "format": "text"}
	if l.apiKey != "" {
		payload["api_key"] = l.apiKey
	}
	body, err := postJSON(ctx, l.client, l.url, payload, nil)
	if err != nil {
		return "", err
	}
	return pick(body, "translatedText")
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any, headers map[string]string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal translate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("translate: %w", err)
		}
		return nil, fmt.Errorf("translate: %w: %w: %v", ErrUnavailable, reliability.ErrRetryable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("translate read: %w: %w: %v", ErrUnavailable, reliability.ErrRetryable, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail := gjson.GetBytes(body, "error.message").String()
		if detail == "" {
			detail = gjson.GetBytes(body, "error").String()
		}
		if reliability.IsRetryableHTTPStatus(res.StatusCode) {
			return nil, fmt.Errorf("translate status %d: %s: %w: %w", res.StatusCode, detail, ErrUnavailable, reliability.ErrRetryable)
		}
		return nil, fmt.Errorf("translate status %d: %s: %w", res.StatusCode, detail, ErrRejected)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("translate: %w", ErrMalformedResponse)
	}
	return body, nil
}

func pick(body []byte, path string) (string, error) {
	v := gjson.GetBytes(body, path)
	if !v.Exists() {
		return "", fmt.Errorf("translate: missing %s: %w", path, ErrMalformedResponse)
	}
	if strings.TrimSpace(v.String()) == "" {
		return "", fmt.Errorf("translate: %w", ErrEmptyTranslation)
	}
	return v.String(), nil
}
