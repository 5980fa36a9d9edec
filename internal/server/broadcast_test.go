package server

import (
	"context"
	"testing"

	"buywise/internal/client"
	"buywise/internal/model"

	"github.com/pkg/errors"
)

type testLogger struct{}

func (testLogger) Debug(v ...any)                 {}
func (testLogger) Info(v ...any)                  {}
func (testLogger) Error(v ...any)                 {}
func (testLogger) Tracef(format string, v ...any) {}
func (testLogger) Debugf(format string, v ...any) {}
func (testLogger) Infof(format string, v ...any)  {}
func (testLogger) Warnf(format string, v ...any)  {}
func (testLogger) Errorf(format string, v ...any) {}

type fakeChat struct {
	messages map[int64][]string
	failFor  int64
}

func newFakeChat() *fakeChat {
	return &fakeChat{messages: map[int64][]string{}}
}

func (f *fakeChat) SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]client.InlineButton) error {
	if chatID == f.failFor {
		return errors.New("blocked by user")
	}
	f.messages[chatID] = append(f.messages[chatID], text)
	return nil
}

func (f *fakeChat) SendPhoto(ctx context.Context, chatID int64, photoURL string, caption string, keyboard [][]client.InlineButton) error {
	return f.SendMessage(ctx, chatID, caption, keyboard)
}

func TestDeliverDailyTop(t *testing.T) {
	chat := newFakeChat()
	chat.failFor = 2
	s := Server{Chat: chat, Logger: testLogger{}}

	users := []model.UserProfile{
		{TelegramID: 1, Country: "Ukraine", Language: "uk"},
		{TelegramID: 2, Country: "Ukraine", Language: "uk"},
		{TelegramID: 3, Country: "Germany", Language: "de"},
		{TelegramID: 4, Country: "Atlantis", Language: "en"},
	}
	byCountry := map[string][]model.Product{
		"Ukraine": {
			{ProductID: "1", Title: "Hub", Price: 10, Currency: "UAH", AffiliateURL: "https://x/1"},
			{ProductID: "2", Title: "Cable", Price: 3, Currency: "UAH", AffiliateURL: "https://x/2"},
		},
		"Germany": {
			{ProductID: "3", Title: "Lamp", Price: 8, Currency: "EUR", AffiliateURL: "https://x/3"},
		},
	}

	sent, failed := s.deliverDailyTop(context.Background(), users, byCountry)
	if sent != 2 || failed != 1 {
		t.Errorf("deliverDailyTop() = sent %d, failed %d, want 2, 1", sent, failed)
	}

	// Intro, two cards, footer.
	if got := len(chat.messages[1]); got != 4 {
		t.Errorf("recipient 1 got %d messages, want 4", got)
	}
	if got := len(chat.messages[3]); got != 3 {
		t.Errorf("recipient 3 got %d messages, want 3", got)
	}
	// No products for the country means no send at all, not a failure.
	if got := len(chat.messages[4]); got != 0 {
		t.Errorf("recipient 4 got %d messages, want 0", got)
	}
}

func TestSendDailyTopCapsCards(t *testing.T) {
	chat := newFakeChat()
	s := Server{Chat: chat, Logger: testLogger{}}

	ps := make([]model.Product, 10)
	for i := range ps {
		ps[i] = model.Product{ProductID: "p", Title: "T", Price: 1, Currency: "USD", AffiliateURL: "https://x"}
	}
	u := model.UserProfile{TelegramID: 7, Country: "United States", Language: "en"}
	if err := s.sendDailyTop(context.Background(), u, ps); err != nil {
		t.Fatalf("sendDailyTop() error: %v", err)
	}
	// Intro + 5 cards + footer.
	if got := len(chat.messages[7]); got != 7 {
		t.Errorf("got %d messages, want 7", got)
	}
}

func TestMatchProduct(t *testing.T) {
	ps := []model.Product{
		{ProductID: "a", Price: 5},
		{ProductID: "b", Price: 7},
	}
	if p, ok := matchProduct(ps, "b"); !ok || p.ProductID != "b" {
		t.Errorf("matchProduct(b) = %+v, %v", p, ok)
	}
	if p, ok := matchProduct(ps, "zzz"); !ok || p.ProductID != "a" {
		t.Errorf("matchProduct(zzz) = %+v, %v, want first-hit fallback", p, ok)
	}
	if _, ok := matchProduct(nil, "a"); ok {
		t.Error("matchProduct on empty results should report no match")
	}
}

func TestShouldNotifyDrop(t *testing.T) {
	tests := []struct {
		oldPrice float64
		newPrice float64
		want     bool
	}{
		{20, 19, true},
		{20, 19.01, false},
		{20, 10, true},
		{20, 20, false},
		{20, 25, false},
		{0, 10, false},
		{10, 0, false},
	}
	for _, tt := range tests {
		if got := shouldNotifyDrop(tt.oldPrice, tt.newPrice); got != tt.want {
			t.Errorf("shouldNotifyDrop(%v, %v) = %v, want %v", tt.oldPrice, tt.newPrice, got, tt.want)
		}
	}
}
