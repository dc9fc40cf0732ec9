// Package translator fronts the RapidAPI google-translate service for the
// chat room's see-translation feature. Without an API key the endpoints run
// in shim mode and echo the input, so the client flow keeps working in
// development.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// TranslateRequest carries the text plus the language pair. from/to and
// source_lang/target_lang are accepted interchangeably, older clients send
// the latter.
type TranslateRequest struct {
	Text       string `json:"text"`
	From       string `json:"from"`
	To         string `json:"to"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Result is a pass-through upstream response: the status code and raw JSON
// body to relay to the client.
type Result struct {
	Status int
	Body   []byte
}

type Service struct {
	key     string
	baseURL string
	host    string
	client  *http.Client
}

func NewService(key, host string) *Service {
	return &Service{
		key:     key,
		baseURL: "https://" + host,
		host:    host,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether a RapidAPI key is configured; otherwise the
// service answers with shim payloads.
func (s *Service) Enabled() bool {
	return s.key != ""
}

// DetectLanguage resolves the language of a text snippet. Shim mode reports
// "auto" under every field name clients look at.
func (s *Service) DetectLanguage(ctx context.Context, text string) (*Result, error) {
	if !s.Enabled() {
		return jsonResult(http.StatusOK, map[string]string{
			"source_lang_code": "auto",
			"lang":             "auto",
			"language":         "auto",
		})
	}
	return s.proxy(ctx, "/api/v1/translator/detect-language", map[string]string{"text": text})
}

// Translate translates a text snippet. Shim mode echoes the input under the
// field names different client versions read.
func (s *Service) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	if !s.Enabled() {
		return jsonResult(http.StatusOK, map[string]string{
			"translated_text": req.Text,
			"translated":      req.Text,
			"text":            req.Text,
		})
	}

	from := req.From
	if from == "" {
		from = req.SourceLang
	}
	if from == "" {
		from = "auto"
	}
	to := req.To
	if to == "" {
		to = req.TargetLang
	}
	if to == "" {
		to = "en"
	}

	return s.proxy(ctx, "/api/v1/translator/text", map[string]string{
		"text": req.Text,
		"from": from,
		"to":   to,
	})
}

// proxy forwards a payload upstream and relays status and body. A non-JSON
// upstream body is wrapped as {"trans": ...} so the client always gets JSON.
func (s *Service) proxy(ctx context.Context, path string, payload map[string]string) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", s.key)
	req.Header.Set("x-rapidapi-host", s.host)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translator upstream: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("translator upstream body: %w", err)
	}
	if !json.Valid(raw) {
		return jsonResult(resp.StatusCode, map[string]string{"trans": string(raw)})
	}
	return &Result{Status: resp.StatusCode, Body: raw}, nil
}

func jsonResult(status int, v interface{}) (*Result, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Result{Status: status, Body: body}, nil
}
