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

// priceDropThreshold is the relative drop below which owners are not
// bothered. Smaller movements still update the stored price.
const priceDropThreshold = 0.05

// matchProduct finds the favorite's product in fresh query results, falling
// back to the first hit when the listing was relisted under a new id.
func matchProduct(ps []model.Product, productID string) (model.Product, bool) {
	for _, p := range ps {
		if p.ProductID == productID {
			return p, true
		}
	}
	if len(ps) > 0 {
		return ps[0], true
	}
	return model.Product{}, false
}

func shouldNotifyDrop(oldPrice, newPrice float64) bool {
	if oldPrice <= 0 || newPrice <= 0 {
		return false
	}
	return (oldPrice-newPrice)/oldPrice >= priceDropThreshold
}

// PriceDropSweep re-checks the current price of every tracked favorite and
// notifies owners of meaningful drops. Vendor queries go out raw, without
// the quality filter, so a favorite below the tier floors is still found.
func (s Server) PriceDropSweep(ctx context.Context) (model.BroadcastLog, error) {
	started := time.Now()

	fs, err := s.DB.FavoritesFindSweepable(ctx)
	if err != nil {
		return model.BroadcastLog{}, errors.Wrap(err, "PriceDropSweep: error finding sweepable favorites")
	}
	s.Logger.Infof("PriceDropSweep: Starting, favorites: %d", len(fs))

	var sent, failed int
	for i, f := range fs {
		if i > 0 {
			time.Sleep(recipientDelay)
		}
		owner, err := s.DB.UserFindByTelegramID(ctx, f.TelegramID)
		if err != nil {
			s.Logger.Errorf("PriceDropSweep: Error finding owner, TelegramID: %d, err: %v", f.TelegramID, err)
			continue
		}

		ps, err := s.Client.AliExpressProductQuery(ctx, client.ProductQuery{
			Keywords: misc.StringLimit(f.Title, 50),
			Country:  owner.Country,
			Currency: owner.Currency,
		})
		if err != nil {
			s.Logger.Errorf("PriceDropSweep: Vendor query failed, ProductID: %s, err: %v", f.ProductID, err)
			continue
		}
		current, ok := matchProduct(ps, f.ProductID)
		if !ok {
			s.Logger.Debugf("PriceDropSweep: No match for ProductID: %s", f.ProductID)
			continue
		}

		if shouldNotifyDrop(f.LastPrice, current.Price) {
			lang := locale.Normalize(owner.Language)
			pct := int((f.LastPrice-current.Price)/f.LastPrice*100 + 0.5)
			text := locale.Tf(lang, "price_drop",
				htmlEscape(misc.StringLimit(f.Title, 60)),
				f.LastPrice, f.Currency, current.Price, f.Currency, pct)
			kb := [][]client.InlineButton{{{Text: locale.T(lang, "buy"), URL: f.AffiliateURL}}}
			if err := s.Chat.SendMessage(ctx, f.TelegramID, text, kb); err != nil {
				s.Logger.Errorf("PriceDropSweep: Error notifying TelegramID: %d, err: %v", f.TelegramID, err)
				failed++
			} else {
				sent++
			}
		}
		if current.Price > 0 && current.Price < f.LastPrice {
			if err := s.DB.FavoriteLastPriceUpdate(ctx, f.ID, current.Price); err != nil {
				s.Logger.Errorf("PriceDropSweep: Error updating LastPrice, ID: %s, err: %v", f.ID.Hex(), err)
			}
		}
	}

	log := model.BroadcastLog{
		Kind:       model.BroadcastKindPriceSweep,
		Recipients: len(fs),
		Sent:       sent,
		Failed:     failed,
		StartedAt:  primitive.NewDateTimeFromTime(started),
		FinishedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if err := s.DB.BroadcastLogInsert(ctx, log); err != nil {
		s.Logger.Errorf("PriceDropSweep: Error inserting BroadcastLog, err: %v", err)
	}
	s.Logger.Infof("PriceDropSweep: Finished, notified: %d, failed: %d, took: %v", sent, failed, time.Since(started))
	return log, nil
}
