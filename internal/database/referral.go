package database

import (
	"context"
	"time"

	"buywise/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrAlreadyReferred = errors.New("user is already referred")
var ErrCouponCodeTaken = errors.New("coupon code already taken")
var ErrCouponExists = errors.New("coupon for milestone already exists")

func (db Database) ReferralEdgeInsert(ctx context.Context, e model.ReferralEdge) error {
	e.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	_, err := db.Collection(CollectionReferralEdges).InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrapf(ErrAlreadyReferred, "ReferredID: %d", e.ReferredID)
	}
	return errors.Wrapf(err, "error inserting ReferralEdge: %+v", e)
}

// ReferralCount is derived from the edges, never from a denormalized counter.
func (db Database) ReferralCount(ctx context.Context, referrerID int64) (int, error) {
	n, err := db.Collection(CollectionReferralEdges).CountDocuments(ctx, bson.M{"referrer_id": referrerID})
	return int(n), errors.Wrapf(err, "error counting ReferralEdges, ReferrerID: %d", referrerID)
}

// CouponInsert distinguishes the two unique indexes on the collection:
// a duplicate (telegram_id, milestone) means the reward was already issued,
// a duplicate code means the generated code collided and a retry makes sense.
func (db Database) CouponInsert(ctx context.Context, c model.RewardCoupon) error {
	c.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	_, err := db.Collection(CollectionRewardCoupons).InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		var existing model.RewardCoupon
		findErr := db.Collection(CollectionRewardCoupons).FindOne(
			ctx,
			bson.M{"telegram_id": c.TelegramID, "milestone": c.Milestone},
		).Decode(&existing)
		if findErr == nil {
			return errors.Wrapf(ErrCouponExists, "TelegramID: %d, Milestone: %d", c.TelegramID, c.Milestone)
		}
		return errors.Wrapf(ErrCouponCodeTaken, "Code: %s", c.Code)
	}
	return errors.Wrapf(err, "error inserting RewardCoupon: %+v", c)
}

func (db Database) CouponExists(ctx context.Context, telegramID int64, milestone int) (bool, error) {
	n, err := db.Collection(CollectionRewardCoupons).CountDocuments(
		ctx,
		bson.M{"telegram_id": telegramID, "milestone": milestone},
	)
	if err != nil {
		return false, errors.Wrapf(err, "error counting RewardCoupons, TelegramID: %d, Milestone: %d", telegramID, milestone)
	}
	return n > 0, nil
}

func (db Database) CouponsFindByUser(ctx context.Context, telegramID int64) ([]model.RewardCoupon, error) {
	var cs []model.RewardCoupon
	cur, err := db.Collection(CollectionRewardCoupons).Find(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find RewardCoupons, TelegramID: %d", telegramID)
	}
	if err = cur.All(ctx, &cs); err != nil {
		return nil, errors.Wrapf(err, "error getting RewardCoupons from cursor, TelegramID: %d", telegramID)
	}
	return cs, nil
}
