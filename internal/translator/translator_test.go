package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// testService points the proxy at a local fake upstream.
func testService(t *testing.T, key string, upstream http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	s := NewService(key, "upstream.test")
	s.baseURL = srv.URL
	s.client = srv.Client()
	return s
}

func decode(t *testing.T, res *Result) map[string]string {
	t.Helper()
	out := map[string]string{}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		t.Fatalf("body is not a JSON object: %v (%s)", err, res.Body)
	}
	return out
}

func TestDetectLanguageShimMode(t *testing.T) {
	s := NewService("", "upstream.test")

	res, err := s.DetectLanguage(context.Background(), "namaste")
	if err != nil {
		t.Fatalf("shim detect failed: %v", err)
	}
	if res.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Status)
	}
	body := decode(t, res)
	for _, field := range []string{"source_lang_code", "lang", "language"} {
		if body[field] != "auto" {
			t.Fatalf("expected %s=auto, got %q", field, body[field])
		}
	}
}

func TestTranslateShimModeEchoesInput(t *testing.T) {
	s := NewService("", "upstream.test")

	res, err := s.Translate(context.Background(), TranslateRequest{Text: "namaste", To: "en"})
	if err != nil {
		t.Fatalf("shim translate failed: %v", err)
	}
	body := decode(t, res)
	for _, field := range []string{"translated_text", "translated", "text"} {
		if body[field] != "namaste" {
			t.Fatalf("expected %s to echo input, got %q", field, body[field])
		}
	}
}

func TestTranslateForwardsHeadersAndPayload(t *testing.T) {
	var gotPath, gotKey, gotHost string
	var gotPayload map[string]string

	s := testService(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"trans":"hello"}`))
	})

	res, err := s.Translate(context.Background(), TranslateRequest{Text: "namaste", SourceLang: "hi"})
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if gotPath != "/api/v1/translator/text" {
		t.Fatalf("unexpected upstream path %q", gotPath)
	}
	if gotKey != "secret-key" || gotHost != "upstream.test" {
		t.Fatalf("rapidapi headers not forwarded: key=%q host=%q", gotKey, gotHost)
	}
	// source_lang is the legacy alias for from; to defaults to en.
	if gotPayload["from"] != "hi" || gotPayload["to"] != "en" || gotPayload["text"] != "namaste" {
		t.Fatalf("unexpected upstream payload: %+v", gotPayload)
	}
	if body := decode(t, res); body["trans"] != "hello" {
		t.Fatalf("upstream body not relayed: %+v", body)
	}
}

func TestTranslateRelaysUpstreamStatus(t *testing.T) {
	s := testService(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"quota exceeded"}`))
	})

	res, err := s.Translate(context.Background(), TranslateRequest{Text: "x"})
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if res.Status != http.StatusForbidden {
		t.Fatalf("upstream status not relayed, got %d", res.Status)
	}
}

func TestTranslateWrapsNonJSONUpstreamBody(t *testing.T) {
	s := testService(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text answer"))
	})

	res, err := s.Translate(context.Background(), TranslateRequest{Text: "x"})
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if body := decode(t, res); body["trans"] != "plain text answer" {
		t.Fatalf("non-JSON body not wrapped: %+v", body)
	}
}

func TestDetectLanguageProxiesWhenEnabled(t *testing.T) {
	var gotPath string
	s := testService(t, "secret-key", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"language":"hi"}`))
	})

	res, err := s.DetectLanguage(context.Background(), "namaste")
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if gotPath != "/api/v1/translator/detect-language" {
		t.Fatalf("unexpected upstream path %q", gotPath)
	}
	if body := decode(t, res); body["language"] != "hi" {
		t.Fatalf("upstream body not relayed: %+v", body)
	}
}
