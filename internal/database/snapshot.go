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

var ErrSnapshotNotFound = errors.New("product snapshot not found")

func (db Database) SnapshotUpsert(ctx context.Context, s model.ProductSnapshot) error {
	s.CachedAt = primitive.NewDateTimeFromTime(time.Now())
	_, err := db.Collection(CollectionSnapshots).UpdateOne(
		ctx,
		bson.M{"product_id": s.ProductID},
		bson.M{"$set": bson.M{
			"product":   s.Product,
			"cached_at": s.CachedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return errors.Wrapf(err, "error upserting ProductSnapshot, ProductID: %s", s.ProductID)
}

func (db Database) SnapshotFind(ctx context.Context, productID string) (model.ProductSnapshot, error) {
	var s model.ProductSnapshot
	err := db.Collection(CollectionSnapshots).FindOne(ctx, bson.M{"product_id": productID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s, errors.Wrapf(ErrSnapshotNotFound, "ProductID: %s", productID)
	}
	return s, errors.Wrapf(err, "error finding ProductSnapshot, ProductID: %s", productID)
}
