package database

import (
	"context"
	"time"

	"buywise/internal/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db Database) SearchHistoryInsert(ctx context.Context, h model.SearchHistoryEntry) error {
	h.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	_, err := db.Collection(CollectionSearchHistories).InsertOne(ctx, h)
	return errors.Wrapf(err, "error inserting SearchHistoryEntry: %+v", h)
}

func (db Database) SearchHistoryFindRecent(ctx context.Context, telegramID int64, limit int) ([]model.SearchHistoryEntry, error) {
	var hs []model.SearchHistoryEntry
	cur, err := db.Collection(CollectionSearchHistories).Find(
		ctx,
		bson.M{"telegram_id": telegramID},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find SearchHistoryEntries, TelegramID: %d", telegramID)
	}
	if err = cur.All(ctx, &hs); err != nil {
		return nil, errors.Wrapf(err, "error getting SearchHistoryEntries from cursor, TelegramID: %d", telegramID)
	}
	return hs, nil
}
