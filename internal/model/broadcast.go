package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type BroadcastLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Kind       string             `bson:"kind"`
	Recipients int                `bson:"recipients"`
	Sent       int                `bson:"sent"`
	Failed     int                `bson:"failed"`
	StartedAt  primitive.DateTime `bson:"started_at"`
	FinishedAt primitive.DateTime `bson:"finished_at"`
}

const (
	BroadcastKindDailyTop   = "daily_top"
	BroadcastKindPriceSweep = "price_sweep"
)
