package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"buywise/internal/misc"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

var ErrChat = errors.New("chat delivery error")

type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// SendMessage delivers an HTML-formatted message. When the chat API rejects
// the formatting, the message is retried once as plain text with all markup
// stripped, so a bad template never silences a notification.
func (c Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]InlineButton) error {
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	if len(keyboard) > 0 {
		payload["reply_markup"] = map[string]any{"inline_keyboard": keyboard}
	}
	err := c.botCall(ctx, "sendMessage", payload)
	if err != nil && isParseError(err) {
		c.Logger.Warnf("SendMessage: Markup rejected, retrying as plain text, ChatID: %d, err: %v", chatID, err)
		payload["text"] = StripMarkup(text)
		delete(payload, "parse_mode")
		err = c.botCall(ctx, "sendMessage", payload)
	}
	return err
}

func (c Client) SendPhoto(ctx context.Context, chatID int64, photoURL string, caption string, keyboard [][]InlineButton) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if len(keyboard) > 0 {
		payload["reply_markup"] = map[string]any{"inline_keyboard": keyboard}
	}
	err := c.botCall(ctx, "sendPhoto", payload)
	if err != nil && isParseError(err) {
		c.Logger.Warnf("SendPhoto: Markup rejected, retrying as plain text, ChatID: %d, err: %v", chatID, err)
		payload["caption"] = StripMarkup(caption)
		delete(payload, "parse_mode")
		err = c.botCall(ctx, "sendPhoto", payload)
	}
	return err
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c Client) botCall(ctx context.Context, method string, payload map[string]any) error {
	if c.BotToken == "" {
		return errors.Wrap(ErrChat, "bot token not configured")
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "error marshalling %s payload", method)
	}
	apiURL := fmt.Sprintf("%s/bot%s/%s", c.BotAPIURL, c.BotToken, method)
	req, err := newRequest(http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return errors.Wrapf(err, "failed to create %s request", method)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return errors.Wrapf(ErrChat, "error doing %s request, err: %v", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 100*1024))
	if err != nil {
		return errors.Wrapf(ErrChat, "error reading %s response body, status: %s, err: %v", method, resp.Status, err)
	}
	br := botResponse{}
	if err = json.Unmarshal(body, &br); err != nil {
		return errors.Wrapf(ErrChat, "error unmarshalling %s response body, status: %s, body:\n%s,\nerr: %v",
			method, resp.Status, misc.BytesLimit(body, 1000), err)
	}
	if !br.OK {
		return errors.Wrapf(ErrChat, "%s rejected, status: %s, description: %s", method, resp.Status, br.Description)
	}
	return nil
}

func isParseError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "parse entities")
}

// StripMarkup flattens an HTML fragment into its text content.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(sb.String())
}
