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

var ErrUserNotFound = errors.New("user not found")

func (db Database) UserFindByTelegramID(ctx context.Context, telegramID int64) (model.UserProfile, error) {
	var u model.UserProfile
	err := db.Collection(CollectionUsers).FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, errors.Wrapf(ErrUserNotFound, "TelegramID: %d", telegramID)
	}
	return u, errors.Wrapf(err, "error finding UserProfile with TelegramID: %d", telegramID)
}

func (db Database) UserFindByReferralCode(ctx context.Context, code string) (model.UserProfile, error) {
	var u model.UserProfile
	err := db.Collection(CollectionUsers).FindOne(ctx, bson.M{"referral_code": code}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, errors.Wrapf(ErrUserNotFound, "ReferralCode: %s", code)
	}
	return u, errors.Wrapf(err, "error finding UserProfile with ReferralCode: %s", code)
}

func (db Database) UserInsert(ctx context.Context, u model.UserProfile) (string, error) {
	u.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	u.UpdatedAt = primitive.NewDateTimeFromTime(time.Now())
	r, err := db.Collection(CollectionUsers).InsertOne(ctx, u)
	if err != nil {
		return "", errors.Wrapf(err, "error inserting UserProfile: %+v", u)
	}
	return r.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (db Database) UserSetCountry(ctx context.Context, telegramID int64, country string, currency string) error {
	return db.userSet(ctx, telegramID, bson.M{"country": country, "currency": currency})
}

func (db Database) UserSetLanguage(ctx context.Context, telegramID int64, language string) error {
	return db.userSet(ctx, telegramID, bson.M{"language": language})
}

func (db Database) UserSetNotificationEnabled(ctx context.Context, telegramID int64, enabled bool) error {
	return db.userSet(ctx, telegramID, bson.M{"notification_enabled": enabled})
}

func (db Database) UserSetReferredBy(ctx context.Context, telegramID int64, referrerID int64) error {
	return db.userSet(ctx, telegramID, bson.M{"referred_by": referrerID})
}

func (db Database) userSet(ctx context.Context, telegramID int64, fields bson.M) error {
	fields["updated_at"] = primitive.NewDateTimeFromTime(time.Now())
	res, err := db.Collection(CollectionUsers).UpdateOne(
		ctx,
		bson.M{"telegram_id": telegramID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating UserProfile, TelegramID: %d, fields: %v", telegramID, fields)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrUserNotFound, "TelegramID: %d", telegramID)
	}
	return nil
}

// UserSetReferralCode only sets the code when none is present, so a
// concurrent generation never overwrites an already published code.
func (db Database) UserSetReferralCode(ctx context.Context, telegramID int64, code string) error {
	res, err := db.Collection(CollectionUsers).UpdateOne(
		ctx,
		bson.M{"telegram_id": telegramID, "referral_code": bson.M{"$in": bson.A{nil, ""}}},
		bson.M{"$set": bson.M{
			"referral_code": code,
			"updated_at":    primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		return errors.Wrapf(err, "error setting ReferralCode for TelegramID: %d", telegramID)
	}
	if res.ModifiedCount == 0 {
		return ErrNoDocumentsModified
	}
	return nil
}

func (db Database) UsersFindNotifiable(ctx context.Context) ([]model.UserProfile, error) {
	var us []model.UserProfile
	cur, err := db.Collection(CollectionUsers).Find(ctx, bson.M{
		"notification_enabled": true,
		"country":              bson.M{"$nin": bson.A{nil, ""}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find notifiable UserProfiles")
	}
	if err = cur.All(ctx, &us); err != nil {
		return nil, errors.Wrap(err, "error getting notifiable UserProfiles from cursor")
	}
	return us, nil
}

type UserCount struct {
	Key   string `bson:"_id"`
	Count int    `bson:"count"`
}

// UserCountsBy groups users on the given field, e.g. "country" or "language".
func (db Database) UserCountsBy(ctx context.Context, field string) ([]UserCount, error) {
	cur, err := db.Collection(CollectionUsers).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error aggregating user counts by %s", field)
	}
	var counts []UserCount
	if err = cur.All(ctx, &counts); err != nil {
		return nil, errors.Wrapf(err, "error getting user counts by %s from cursor", field)
	}
	return counts, nil
}

func (db Database) UsersCount(ctx context.Context) (int64, error) {
	n, err := db.Collection(CollectionUsers).CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "error counting UserProfiles")
}
