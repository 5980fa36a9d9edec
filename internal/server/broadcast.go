package server

import (
	"context"
	"time"

	"buywise/internal/client"
	"buywise/internal/locale"
	"buywise/internal/misc"
	"buywise/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dailyTopQuery = "bestseller trending hot deals"

const (
	dailyTopCards  = 5
	cardDelay      = 100 * time.Millisecond
	recipientDelay = 200 * time.Millisecond
)

// DailyTopBroadcast pushes the day's best deals to every opted-in user.
// Products are queried once per country and reused across recipients;
// one failing recipient never stops the fan-out.
func (s Server) DailyTopBroadcast(ctx context.Context) (model.BroadcastLog, error) {
	started := time.Now()

	users, err := s.DB.UsersFindNotifiable(ctx)
	if err != nil {
		return model.BroadcastLog{}, errors.Wrap(err, "DailyTopBroadcast: error finding notifiable users")
	}
	s.Logger.Infof("DailyTopBroadcast: Starting, recipients: %d", len(users))

	byCountry := map[string][]model.Product{}
	for _, u := range users {
		if _, ok := byCountry[u.Country]; ok {
			continue
		}
		res := s.SearchProducts(ctx, 0, SearchParams{
			Query:     dailyTopQuery,
			Country:   u.Country,
			Currency:  u.Currency,
			MinRating: 4.5,
			MinOrders: 100,
			MinPrice:  1,
			Page:      1,
			PageSize:  topPageSize,
		})
		if !res.Success {
			s.Logger.Errorf("DailyTopBroadcast: Vendor query failed for country: %s", u.Country)
		}
		byCountry[u.Country] = res.Products
	}

	sent, failed := s.deliverDailyTop(ctx, users, byCountry)

	log := model.BroadcastLog{
		Kind:       model.BroadcastKindDailyTop,
		Recipients: len(users),
		Sent:       sent,
		Failed:     failed,
		StartedAt:  primitive.NewDateTimeFromTime(started),
		FinishedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := s.DB.BroadcastLogInsert(ctx, log); err != nil {
		s.Logger.Errorf("DailyTopBroadcast: Error inserting BroadcastLog, err: %v", err)
	}
	s.Logger.Infof("DailyTopBroadcast: Finished, sent: %d, failed: %d, took: %v", sent, failed, time.Since(started))
	return log, nil
}

func (s Server) deliverDailyTop(ctx context.Context, users []model.UserProfile, byCountry map[string][]model.Product) (sent, failed int) {
	for i, u := range users {
		ps := byCountry[u.Country]
		if len(ps) == 0 {
			continue
		}
		if err := s.sendDailyTop(ctx, u, ps); err != nil {
			s.Logger.Errorf("deliverDailyTop: Error sending to TelegramID: %d, err: %v", u.TelegramID, err)
			failed++
		} else {
			sent++
		}
		if i < len(users)-1 {
			time.Sleep(recipientDelay)
		}
	}
	return sent, failed
}

func (s Server) sendDailyTop(ctx context.Context, u model.UserProfile, ps []model.Product) error {
	lang := locale.Normalize(u.Language)
	if err := s.Chat.SendMessage(ctx, u.TelegramID, locale.T(lang, "daily_intro"), nil); err != nil {
		return err
	}
	for _, p := range ps[:misc.Min(dailyTopCards, len(ps))] {
		if err := s.sendProductCard(ctx, u.TelegramID, lang, p); err != nil {
			return err
		}
		time.Sleep(cardDelay)
	}
	kb := [][]client.InlineButton{{
		{Text: locale.T(lang, "daily_top10"), CallbackData: "action:top10"},
		{Text: locale.T(lang, "daily_off"), CallbackData: "toggle:daily_off"},
	}}
	return s.Chat.SendMessage(ctx, u.TelegramID, locale.T(lang, "daily_footer"), kb)
}
