package database

import (
	"context"

	"buywise/internal/model"

	"github.com/pkg/errors"
)

func (db Database) BroadcastLogInsert(ctx context.Context, l model.BroadcastLog) error {
	_, err := db.Collection(CollectionBroadcastLogs).InsertOne(ctx, l)
	return errors.Wrapf(err, "error inserting BroadcastLog: %+v", l)
}
