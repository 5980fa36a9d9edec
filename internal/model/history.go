package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type SearchHistoryEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID  int64              `bson:"telegram_id"`
	Query       string             `bson:"query"`
	ResultCount int                `bson:"result_count"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}
