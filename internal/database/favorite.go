package database

import (
	"context"
	"time"

	"buywise/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrFavoriteExists = errors.New("favorite already exists")
var ErrFavoriteNotFound = errors.New("favorite not found")

func (db Database) FavoriteInsert(ctx context.Context, f model.FavoriteItem) error {
	f.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	f.CheckedAt = f.CreatedAt
	f.LastPrice = f.Price
	_, err := db.Collection(CollectionFavorites).InsertOne(ctx, f)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrapf(ErrFavoriteExists, "TelegramID: %d, ProductID: %s", f.TelegramID, f.ProductID)
	}
	return errors.Wrapf(err, "error inserting FavoriteItem: %+v", f)
}

func (db Database) FavoritesFindByUser(ctx context.Context, telegramID int64) ([]model.FavoriteItem, error) {
	var fs []model.FavoriteItem
	cur, err := db.Collection(CollectionFavorites).Find(
		ctx,
		bson.M{"telegram_id": telegramID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find FavoriteItems, TelegramID: %d", telegramID)
	}
	if err = cur.All(ctx, &fs); err != nil {
		return nil, errors.Wrapf(err, "error getting FavoriteItems from cursor, TelegramID: %d", telegramID)
	}
	return fs, nil
}

func (db Database) FavoriteRemove(ctx context.Context, telegramID int64, productID string) error {
	res, err := db.Collection(CollectionFavorites).DeleteOne(
		ctx,
		bson.M{"telegram_id": telegramID, "product_id": productID},
	)
	if err != nil {
		return errors.Wrapf(err, "error removing FavoriteItem, TelegramID: %d, ProductID: %s", telegramID, productID)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(ErrFavoriteNotFound, "TelegramID: %d, ProductID: %s", telegramID, productID)
	}
	return nil
}

// FavoritesFindSweepable returns favorites eligible for the price sweep,
// skipping entries that never had a usable price.
func (db Database) FavoritesFindSweepable(ctx context.Context) ([]model.FavoriteItem, error) {
	var fs []model.FavoriteItem
	cur, err := db.Collection(CollectionFavorites).Find(ctx, bson.M{"last_price": bson.M{"$gt": 0}})
	if err != nil {
		return nil, errors.Wrap(err, "error getting cursor to find sweepable FavoriteItems")
	}
	if err = cur.All(ctx, &fs); err != nil {
		return nil, errors.Wrap(err, "error getting sweepable FavoriteItems from cursor")
	}
	return fs, nil
}

func (db Database) FavoriteLastPriceUpdate(ctx context.Context, id primitive.ObjectID, price float64) error {
	res, err := db.Collection(CollectionFavorites).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"last_price": price,
			"checked_at": primitive.NewDateTimeFromTime(time.Now()),
		}},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating FavoriteItem LastPrice, ID: %s, Price: %f", id.Hex(), price)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrFavoriteNotFound, "ID: %s", id.Hex())
	}
	return nil
}
