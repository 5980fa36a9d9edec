package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ReferralEdge records that ReferredID joined through ReferrerID's link.
// The referral count of a user is always derived from these edges.
type ReferralEdge struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ReferrerID int64              `bson:"referrer_id"`
	ReferredID int64              `bson:"referred_id"`
	CreatedAt  primitive.DateTime `bson:"created_at"`
}

type RewardCoupon struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID int64              `bson:"telegram_id"`
	Milestone  int                `bson:"milestone"`
	Percent    int                `bson:"percent"`
	Code       string             `bson:"code"`
	CreatedAt  primitive.DateTime `bson:"created_at"`
	ExpiresAt  primitive.DateTime `bson:"expires_at"`
}
