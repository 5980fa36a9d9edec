package server

import (
	"context"
	"strings"

	"buywise/internal/client"
	"buywise/internal/database"
	"buywise/internal/locale"
	"buywise/internal/model"

	"github.com/pkg/errors"
)

type callbackKind int

const (
	callbackUnknown callbackKind = iota
	callbackCountry
	callbackLanguage
	callbackAction
	callbackSettings
	callbackToggle
	callbackFavorite
	callbackUnfavorite
	callbackMore
	callbackRepeat
)

type callback struct {
	kind  callbackKind
	value string
}

// parseCallback splits "namespace:value" callback payloads into a tagged
// action. The value may itself contain colons (search queries do), so only
// the first separator counts. Unknown namespaces map to callbackUnknown,
// which the router answers with the menu instead of an error.
func parseCallback(data string) callback {
	ns, val, _ := strings.Cut(data, ":")
	switch ns {
	case "country":
		return callback{callbackCountry, val}
	case "lang":
		return callback{callbackLanguage, val}
	case "action":
		return callback{callbackAction, val}
	case "settings":
		return callback{callbackSettings, val}
	case "toggle":
		return callback{callbackToggle, val}
	case "fav", "like":
		return callback{callbackFavorite, val}
	case "unfav":
		return callback{callbackUnfavorite, val}
	case "more":
		return callback{callbackMore, val}
	case "repeat":
		return callback{callbackRepeat, val}
	default:
		return callback{callbackUnknown, data}
	}
}

func (s Server) handleCallback(ctx context.Context, ev Event, user model.UserProfile, profileKnown bool, lang string) error {
	cb := parseCallback(ev.CallbackData)

	switch cb.kind {
	case callbackCountry:
		return s.setCountry(ctx, ev, user, profileKnown, lang, cb.value)

	case callbackLanguage:
		newLang := locale.Normalize(cb.value)
		if user.Language != newLang {
			if err := s.DB.UserSetLanguage(ctx, ev.UserID, newLang); err != nil {
				return errors.Wrap(err, "handleCallback: error setting language")
			}
		}
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(newLang, "menu"), nil)

	case callbackSettings:
		return s.handleSettings(ctx, ev, user, lang, cb.value)

	case callbackToggle:
		return s.handleToggle(ctx, ev, user, lang, cb.value)

	case callbackFavorite:
		return s.addFavorite(ctx, ev, user, lang, cb.value)

	case callbackUnfavorite:
		return s.removeFavorite(ctx, ev, lang, cb.value)

	case callbackAction:
		if cb.value == "top10" {
			return s.handleTop(ctx, ev.ChatID, user, lang)
		}
		s.Logger.Debugf("handleCallback: Unhandled action value: %s, UserID: %d", cb.value, ev.UserID)
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)

	case callbackMore:
		sess, ok := s.Sessions.LastSearch(ctx, ev.UserID)
		if !ok || sess.Query == "" {
			return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)
		}
		return s.handleSearch(ctx, ev.ChatID, user, lang, sess.Query, sess.Page+1)

	case callbackRepeat:
		if cb.value == "" {
			return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)
		}
		return s.handleSearch(ctx, ev.ChatID, user, lang, cb.value, 1)

	default:
		s.Logger.Debugf("handleCallback: Unknown callback data: %s, UserID: %d", ev.CallbackData, ev.UserID)
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)
	}
}

func (s Server) setCountry(ctx context.Context, ev Event, user model.UserProfile, profileKnown bool, lang string, country string) error {
	if _, err := s.ensureProfile(ctx, ev, user, profileKnown, lang); err != nil {
		return err
	}
	currency := model.CurrencyForCountry(country)
	if err := s.DB.UserSetCountry(ctx, ev.UserID, country, currency); err != nil {
		return errors.Wrap(err, "setCountry: error updating country")
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, locale.Tf(lang, "welcome", country, currency), nil)
}

func (s Server) handleSettings(ctx context.Context, ev Event, user model.UserProfile, lang string, section string) error {
	switch section {
	case "country":
		return s.sendCountryChooser(ctx, ev.ChatID, lang)
	case "language":
		return s.sendLanguageChooser(ctx, ev.ChatID, lang)
	case "notifications":
		kb := [][]client.InlineButton{{
			{Text: locale.T(lang, "settings_notify") + " ✅", CallbackData: "toggle:daily_on"},
			{Text: locale.T(lang, "settings_notify") + " ❌", CallbackData: "toggle:daily_off"},
		}}
		key := "notify_off"
		if user.NotificationEnabled {
			key = "notify_on"
		}
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, key), kb)
	default:
		kb := [][]client.InlineButton{
			{{Text: locale.T(lang, "settings_country"), CallbackData: "settings:country"}},
			{{Text: locale.T(lang, "settings_lang"), CallbackData: "settings:language"}},
			{{Text: locale.T(lang, "settings_notify"), CallbackData: "settings:notifications"}},
		}
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "settings"), kb)
	}
}

// handleToggle is idempotent: tapping an already-applied toggle twice
// confirms the current state instead of flipping it back.
func (s Server) handleToggle(ctx context.Context, ev Event, user model.UserProfile, lang string, value string) error {
	var enabled bool
	switch value {
	case "daily_on":
		enabled = true
	case "daily_off":
		enabled = false
	default:
		s.Logger.Debugf("handleToggle: Unknown toggle value: %s, UserID: %d", value, ev.UserID)
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)
	}
	if user.NotificationEnabled != enabled {
		if err := s.DB.UserSetNotificationEnabled(ctx, ev.UserID, enabled); err != nil {
			return errors.Wrap(err, "handleToggle: error updating notification flag")
		}
	}
	key := "notify_off"
	if enabled {
		key = "notify_on"
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, key), nil)
}

func (s Server) addFavorite(ctx context.Context, ev Event, user model.UserProfile, lang string, productID string) error {
	p := s.Snapshots.Get(ctx, productID)
	f := model.FavoriteItem{
		TelegramID:   ev.UserID,
		ProductID:    p.ProductID,
		Title:        p.Title,
		Price:        p.Price,
		Currency:     p.Currency,
		ImageURL:     p.ImageURL,
		AffiliateURL: p.AffiliateURL,
	}
	if err := s.DB.FavoriteInsert(ctx, f); err != nil {
		if errors.Is(err, database.ErrFavoriteExists) {
			return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "favorite_exists"), nil)
		}
		return errors.Wrap(err, "addFavorite: error inserting FavoriteItem")
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, locale.Tf(lang, "favorite_added", htmlEscape(p.Title)), nil)
}

func (s Server) removeFavorite(ctx context.Context, ev Event, lang string, productID string) error {
	p := s.Snapshots.Get(ctx, productID)
	if err := s.DB.FavoriteRemove(ctx, ev.UserID, productID); err != nil {
		if errors.Is(err, database.ErrFavoriteNotFound) {
			return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "favorites_empty"), nil)
		}
		return errors.Wrap(err, "removeFavorite: error removing FavoriteItem")
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, locale.Tf(lang, "favorite_removed", htmlEscape(p.Title)), nil)
}
