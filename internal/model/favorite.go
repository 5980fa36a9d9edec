package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type FavoriteItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID   int64              `bson:"telegram_id"`
	ProductID    string             `bson:"product_id"`
	Title        string             `bson:"title"`
	Price        float64            `bson:"price"`
	LastPrice    float64            `bson:"last_price"`
	Currency     string             `bson:"currency"`
	ImageURL     string             `bson:"image_url"`
	AffiliateURL string             `bson:"affiliate_url"`
	CreatedAt    primitive.DateTime `bson:"created_at"`
	CheckedAt    primitive.DateTime `bson:"checked_at"`
}
