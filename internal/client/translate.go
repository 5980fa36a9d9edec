package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"buywise/internal/misc"

	"github.com/pkg/errors"
)

var ErrTranslatorNotConfigured = errors.New("translator not configured")

const translatePrompt = "Translate the product search query to English. " +
	"Reply with the translated query only, no explanations."

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// queryLexicon backs the offline translation fallback: common product words
// mapped to English, matched by substring. Entries are checked in order so
// modifiers like "wireless" come out before the noun they qualify.
var queryLexicon = []struct {
	word    string
	english string
}{
	{"бездротов", "wireless"},
	{"беспроводн", "wireless"},
	{"навушники", "headphones"},
	{"наушники", "headphones"},
	{"телефон", "phone"},
	{"чохол", "phone case"},
	{"чехол", "phone case"},
	{"годинник", "watch"},
	{"часы", "watch"},
	{"кросівки", "sneakers"},
	{"кроссовки", "sneakers"},
	{"сумка", "bag"},
	{"рюкзак", "backpack"},
	{"лампа", "lamp"},
	{"кабель", "cable"},
	{"зарядк", "charger"},
	{"іграшк", "toy"},
	{"игрушк", "toy"},
	{"kopfhörer", "headphones"},
	{"auriculares", "headphones"},
	{"słuchawki", "headphones"},
	{"uhr", "watch"},
	{"reloj", "watch"},
	{"zegarek", "watch"},
}

func lexiconMatch(q string) string {
	lq := strings.ToLower(q)
	var terms []string
	for _, e := range queryLexicon {
		if strings.Contains(lq, e.word) {
			terms = append(terms, e.english)
		}
	}
	return strings.Join(terms, " ")
}

// TranslateQuery turns a free-text query into an English search query.
// It never fails outward: queries that are already plain ASCII pass through,
// and a translator problem falls back to the static lexicon, then to the raw
// query with a generic "product" suffix so the vendor search still gets
// something usable.
func (c Client) TranslateQuery(ctx context.Context, query string) string {
	q := strings.TrimSpace(query)
	if misc.IsPlainASCII(q) {
		return q
	}
	if c.Translations != nil {
		if cached, ok := c.Translations.Get(q); ok {
			c.Logger.Debugf("TranslateQuery: Cache hit for query: %s", misc.StringLimit(q, 50))
			return cached
		}
	}
	translated, err := c.translate(ctx, q)
	if err != nil || translated == "" {
		if m := lexiconMatch(q); m != "" {
			c.Logger.Warnf("TranslateQuery: Using lexicon match %q for query: %s, err: %v", m, misc.StringLimit(q, 50), err)
			return m
		}
		c.Logger.Warnf("TranslateQuery: Falling back to raw query: %s, err: %v", misc.StringLimit(q, 50), err)
		return q + " product"
	}
	if c.Translations != nil {
		c.Translations.Add(q, translated)
	}
	return translated
}

func (c Client) translate(ctx context.Context, query string) (string, error) {
	if c.TranslatorURL == "" || c.TranslatorKey == "" {
		return "", ErrTranslatorNotConfigured
	}
	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: c.TranslatorModel,
		Messages: []chatCompletionMessage{
			{Role: "system", Content: translatePrompt},
			{Role: "user", Content: query},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", errors.Wrap(err, "error marshalling translation request")
	}

	req, err := newRequest(http.MethodPost, c.TranslatorURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", errors.Wrapf(err, "failed to create request to URL: %s", c.TranslatorURL)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.TranslatorKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "error doing translation request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 100*1024))
	if err != nil {
		return "", errors.Wrapf(err, "error reading translation response body, status: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("translation request failed, status: %s, body:\n%s",
			resp.Status, misc.BytesLimit(body, 1000))
	}
	ccResp := chatCompletionResponse{}
	if err = json.Unmarshal(body, &ccResp); err != nil {
		return "", errors.Wrapf(err, "error unmarshalling translation response body, body:\n%s",
			misc.BytesLimit(body, 1000))
	}
	if len(ccResp.Choices) == 0 {
		return "", errors.New("translation response contains no choices")
	}
	return strings.Trim(strings.TrimSpace(ccResp.Choices[0].Message.Content), `"`), nil
}
