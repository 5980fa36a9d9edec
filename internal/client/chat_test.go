package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

func TestSendMessage(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken123/sendMessage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("error decoding payload: %v", err)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := Client{Client: srv.Client(), BotAPIURL: srv.URL, BotToken: "token123", Logger: testLogger{}}
	kb := [][]InlineButton{{{Text: "Buy", URL: "https://example.com"}}}
	if err := c.SendMessage(context.Background(), 42, "<b>hi</b>", kb); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if payload["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v", payload["parse_mode"])
	}
	if payload["chat_id"] != float64(42) {
		t.Errorf("chat_id = %v", payload["chat_id"])
	}
	if _, ok := payload["reply_markup"]; !ok {
		t.Error("reply_markup missing")
	}
}

func TestSendMessageParseErrorRetry(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		texts = append(texts, payload["text"].(string))
		if _, ok := payload["parse_mode"]; ok {
			w.Write([]byte(`{"ok": false, "description": "Bad Request: can't parse entities"}`))
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := Client{Client: srv.Client(), BotAPIURL: srv.URL, BotToken: "token123", Logger: testLogger{}}
	if err := c.SendMessage(context.Background(), 42, "<b>broken <markup</b>", nil); err != nil {
		t.Fatalf("SendMessage() error after retry: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("got %d requests, want 2 (plain text retry)", len(texts))
	}
	if texts[1] != "broken" {
		t.Errorf("retry text = %q, want stripped markup", texts[1])
	}
}

func TestSendMessageRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "Forbidden: bot was blocked by the user"}`))
	}))
	defer srv.Close()

	c := Client{Client: srv.Client(), BotAPIURL: srv.URL, BotToken: "token123", Logger: testLogger{}}
	err := c.SendMessage(context.Background(), 42, "hi", nil)
	if !errors.Is(err, ErrChat) {
		t.Errorf("err = %v, want ErrChat", err)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> and <i>italic</i>", "bold and italic"},
		{`<a href="https://example.com">link</a>`, "link"},
		{"broken <markup", "broken"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripMarkup(tt.in); got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
