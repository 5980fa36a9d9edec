package server

import (
	"context"
	"fmt"
	"strings"

	"buywise/internal/client"
	"buywise/internal/database"
	"buywise/internal/locale"
	"buywise/internal/misc"
	"buywise/internal/model"

	"github.com/pkg/errors"
)

// parseCommand extracts "/cmd arg" from a message, tolerating the
// "/cmd@botname" form used in group chats.
func parseCommand(text string) (cmd string, arg string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", ""
	}
	cmd = strings.ToLower(fields[0])
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	if len(fields) > 1 {
		arg = fields[1]
	}
	return cmd, arg
}

func (s Server) handleCommand(ctx context.Context, ev Event, user model.UserProfile, profileKnown bool, lang string) error {
	cmd, arg := parseCommand(ev.Text)
	switch cmd {
	case "/start":
		return s.handleStart(ctx, ev, user, profileKnown, lang, arg)
	case "/help":
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "help"), nil)
	case "/profile":
		return s.handleProfile(ctx, ev, user, lang)
	case "/favorites":
		return s.handleFavorites(ctx, ev, lang)
	case "/top":
		return s.handleTop(ctx, ev.ChatID, user, lang)
	case "/settings":
		return s.handleSettings(ctx, ev, user, lang, "")
	case "/admin":
		return s.handleAdmin(ctx, ev, lang)
	default:
		s.Logger.Debugf("handleCommand: Unknown command: %s, UserID: %d", cmd, ev.UserID)
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "menu"), nil)
	}
}

func (s Server) handleStart(ctx context.Context, ev Event, user model.UserProfile, profileKnown bool, lang string, refCode string) error {
	user, err := s.ensureProfile(ctx, ev, user, profileKnown, lang)
	if err != nil {
		return err
	}

	if refCode != "" {
		switch err := s.ApplyReferral(ctx, refCode, ev.UserID); {
		case err == nil:
			if err := s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "referral_applied"), nil); err != nil {
				s.Logger.Errorf("handleStart: Error sending referral confirmation, UserID: %d, err: %v", ev.UserID, err)
			}
		case errors.Is(err, ErrSelfReferral):
			if err := s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "referral_self"), nil); err != nil {
				s.Logger.Errorf("handleStart: Error sending self-referral notice, UserID: %d, err: %v", ev.UserID, err)
			}
		case errors.Is(err, database.ErrAlreadyReferred):
			s.Logger.Debugf("handleStart: UserID: %d already referred", ev.UserID)
		case errors.Is(err, ErrReferralCodeInvalid):
			if err := s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "referral_invalid"), nil); err != nil {
				s.Logger.Errorf("handleStart: Error sending invalid-referral notice, UserID: %d, err: %v", ev.UserID, err)
			}
		default:
			s.Logger.Errorf("handleStart: Error applying referral code: %s, UserID: %d, err: %v", refCode, ev.UserID, err)
		}
	}

	if user.Country == "" {
		return s.sendCountryChooser(ctx, ev.ChatID, lang)
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, locale.Tf(lang, "welcome", user.Country, user.Currency), nil)
}

func (s Server) handleProfile(ctx context.Context, ev Event, user model.UserProfile, lang string) error {
	refCount, err := s.DB.ReferralCount(ctx, ev.UserID)
	if err != nil {
		s.Logger.Errorf("handleProfile: Error counting referrals, UserID: %d, err: %v", ev.UserID, err)
	}
	name := user.DisplayName
	if name == "" {
		name = fmt.Sprintf("User %d", ev.UserID)
	}
	text := locale.Tf(lang, "profile", htmlEscape(name), user.Country, user.Currency, refCount)

	if code, err := s.ensureReferralCode(ctx, user); err != nil {
		s.Logger.Errorf("handleProfile: Error ensuring referral code, UserID: %d, err: %v", ev.UserID, err)
	} else {
		text += "\n\n" + locale.Tf(lang, "profile_referral", s.referralLink(code))
	}

	if cs, err := s.DB.CouponsFindByUser(ctx, ev.UserID); err != nil {
		s.Logger.Errorf("handleProfile: Error finding coupons, UserID: %d, err: %v", ev.UserID, err)
	} else if len(cs) > 0 {
		text += "\n\n" + locale.T(lang, "profile_coupons")
		for _, c := range cs {
			text += fmt.Sprintf("\n• <code>%s</code> (-%d%%)", c.Code, c.Percent)
		}
	}

	var kb [][]client.InlineButton
	if hs, err := s.DB.SearchHistoryFindRecent(ctx, ev.UserID, 5); err != nil {
		s.Logger.Errorf("handleProfile: Error finding search history, UserID: %d, err: %v", ev.UserID, err)
	} else if len(hs) > 0 {
		text += "\n\n" + locale.T(lang, "profile_history")
		for _, h := range hs {
			kb = append(kb, []client.InlineButton{{
				Text:         locale.Tf(lang, "repeat", misc.StringLimit(h.Query, 30)),
				CallbackData: "repeat:" + h.Query,
			}})
		}
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, text, kb)
}

func (s Server) handleFavorites(ctx context.Context, ev Event, lang string) error {
	fs, err := s.DB.FavoritesFindByUser(ctx, ev.UserID)
	if err != nil {
		return errors.Wrap(err, "handleFavorites: error finding FavoriteItems")
	}
	if len(fs) == 0 {
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "favorites_empty"), nil)
	}
	var sb strings.Builder
	sb.WriteString(locale.T(lang, "favorites_title"))
	var kb [][]client.InlineButton
	for _, f := range fs {
		sb.WriteString(fmt.Sprintf("\n• <a href=\"%s\">%s</a> — %.2f %s",
			f.AffiliateURL, htmlEscape(misc.StringLimit(f.Title, 60)), f.LastPrice, f.Currency))
		kb = append(kb, []client.InlineButton{{
			Text:         locale.Tf(lang, "unfav", misc.StringLimit(f.Title, 30)),
			CallbackData: "unfav:" + f.ProductID,
		}})
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, sb.String(), kb)
}

func (s Server) handleAdmin(ctx context.Context, ev Event, lang string) error {
	if !s.isAdmin(ev.UserID) {
		return s.Chat.SendMessage(ctx, ev.ChatID, locale.T(lang, "admin_denied"), nil)
	}
	total, err := s.DB.UsersCount(ctx)
	if err != nil {
		return errors.Wrap(err, "handleAdmin: error counting users")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Users: %d\n", total)
	if byCountry, err := s.DB.UserCountsBy(ctx, "country"); err != nil {
		s.Logger.Errorf("handleAdmin: Error counting users by country, err: %v", err)
	} else {
		sb.WriteString("\nBy country:\n")
		for _, c := range byCountry {
			key := c.Key
			if key == "" {
				key = "(not set)"
			}
			fmt.Fprintf(&sb, "  %s: %d\n", key, c.Count)
		}
	}
	if byLang, err := s.DB.UserCountsBy(ctx, "language"); err != nil {
		s.Logger.Errorf("handleAdmin: Error counting users by language, err: %v", err)
	} else {
		sb.WriteString("\nBy language:\n")
		for _, c := range byLang {
			key := c.Key
			if key == "" {
				key = "(not set)"
			}
			fmt.Fprintf(&sb, "  %s: %d\n", key, c.Count)
		}
	}
	return s.Chat.SendMessage(ctx, ev.ChatID, sb.String(), nil)
}
