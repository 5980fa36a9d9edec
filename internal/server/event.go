package server

import (
	"context"
	"strings"

	"buywise/internal/client"
	"buywise/internal/database"
	"buywise/internal/locale"
	"buywise/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event is one pre-parsed chat update. Raw webhook payload parsing happens
// upstream; by the time an event reaches the router it is already flat.
type Event struct {
	UserID       int64  `json:"user_id"`
	ChatID       int64  `json:"chat_id"`
	DisplayName  string `json:"display_name"`
	Language     string `json:"language_code"`
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
	IsCallback   bool   `json:"is_callback"`
}

type eventKind int

const (
	eventMenu eventKind = iota
	eventCallback
	eventCommand
	eventSearch
)

// classifyEvent decides what an update is, in strict precedence order:
// callback first, then command, then free text long enough to search for.
// Everything else falls back to the menu prompt.
func classifyEvent(ev Event) eventKind {
	if ev.IsCallback {
		return eventCallback
	}
	t := strings.TrimSpace(ev.Text)
	if strings.HasPrefix(t, "/") {
		return eventCommand
	}
	if len([]rune(t)) > 1 {
		return eventSearch
	}
	return eventMenu
}

func (s Server) HandleEvent(ctx context.Context, ev Event) error {
	kind := classifyEvent(ev)

	user, err := s.DB.UserFindByTelegramID(ctx, ev.UserID)
	profileKnown := err == nil
	if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		return errors.Wrapf(err, "HandleEvent: error finding UserProfile, UserID: %d", ev.UserID)
	}

	lang := locale.Normalize(ev.Language)
	if profileKnown && user.Language != "" {
		lang = user.Language
	}

	// Without a resolved country there is nothing to search in, so everything
	// except the country-resolving flows collapses into the country chooser.
	// This covers both missing profiles and profiles created by /start that
	// never picked a country.
	country := ""
	if profileKnown {
		country = user.Country
	}
	if countryChooserNeeded(kind, ev, country) {
		s.Logger.Debugf("HandleEvent: No country for UserID: %d, sending country chooser", ev.UserID)
		return s.sendCountryChooser(ctx, ev.ChatID, lang)
	}

	switch kind {
	case eventCallback:
		return s.handleCallback(ctx, ev, user, profileKnown, lang)
	case eventCommand:
		return s.handleCommand(ctx, ev, user, profileKnown, lang)
	case eventSearch:
		return s.handleSearch(ctx, ev.ChatID, user, lang, strings.TrimSpace(ev.Text), 1)
	default:
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)
	}
}

// countryChooserNeeded reports whether the update must be answered with the
// country chooser instead of its normal handler. Only /start and country
// selection callbacks are allowed through while the country is unset.
func countryChooserNeeded(kind eventKind, ev Event, country string) bool {
	if country != "" {
		return false
	}
	cmd, _ := parseCommand(ev.Text)
	cb := parseCallback(ev.CallbackData)
	startFlow := (kind == eventCommand && cmd == "/start") ||
		(kind == eventCallback && cb.kind == callbackCountry)
	return !startFlow
}

// countryChoices drives the country keyboard. The set mirrors the markets
// the vendor pipeline can ship to.
var countryChoices = []string{
	"Ukraine", "Poland",
	"Germany", "France",
	"Spain", "Italy",
	"United Kingdom", "United States",
	"Czech Republic", "Romania",
	"Canada", "Brazil",
	"Turkey", "Kazakhstan",
}

func (s Server) sendCountryChooser(ctx context.Context, chatID int64, lang string) error {
	var kb [][]client.InlineButton
	for i := 0; i < len(countryChoices); i += 2 {
		row := []client.InlineButton{{Text: countryChoices[i], CallbackData: "country:" + countryChoices[i]}}
		if i+1 < len(countryChoices) {
			row = append(row, client.InlineButton{Text: countryChoices[i+1], CallbackData: "country:" + countryChoices[i+1]})
		}
		kb = append(kb, row)
	}
	return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "choose_country"), kb)
}

func (s Server) sendLanguageChooser(ctx context.Context, chatID int64, lang string) error {
	names := map[string]string{
		"en": "English",
		"uk": "Українська",
		"ru": "Русский",
		"de": "Deutsch",
		"pl": "Polski",
		"es": "Español",
	}
	var kb [][]client.InlineButton
	var row []client.InlineButton
	for _, l := range locale.Supported() {
		row = append(row, client.InlineButton{Text: names[l], CallbackData: "lang:" + l})
		if len(row) == 2 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "choose_language"), kb)
}

func (s Server) ensureProfile(ctx context.Context, ev Event, user model.UserProfile, profileKnown bool, lang string) (model.UserProfile, error) {
	if profileKnown {
		return user, nil
	}
	u := model.UserProfile{
		TelegramID:          ev.UserID,
		DisplayName:         ev.DisplayName,
		Language:            lang,
		NotificationEnabled: true,
	}
	if _, err := s.DB.UserInsert(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(errors.Cause(err)) {
			return s.DB.UserFindByTelegramID(ctx, ev.UserID)
		}
		return u, errors.Wrapf(err, "error creating UserProfile for UserID: %d", ev.UserID)
	}
	s.Logger.Infof("ensureProfile: Created UserProfile for UserID: %d", ev.UserID)
	return u, nil
}
