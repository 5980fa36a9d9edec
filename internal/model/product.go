package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a normalized marketplace search hit.
type Product struct {
	ProductID     string  `bson:"product_id" json:"product_id"`
	Title         string  `bson:"title" json:"title"`
	Price         float64 `bson:"price" json:"price"`
	OriginalPrice float64 `bson:"original_price" json:"original_price"`
	Currency      string  `bson:"currency" json:"currency"`
	Rating        float64 `bson:"rating" json:"rating"`
	Orders        int     `bson:"orders" json:"orders"`
	DiscountPct   int     `bson:"discount_pct" json:"discount_pct"`
	ImageURL      string  `bson:"image_url" json:"image_url"`
	AffiliateURL  string  `bson:"affiliate_url" json:"affiliate_url"`
	FreeShipping  bool    `bson:"free_shipping" json:"free_shipping"`
	Score         float64 `bson:"score" json:"score"`
}

// ProductSnapshot is a Product pinned for later callback lookups, so a
// "save to favorites" button keeps working after the search results expired.
type ProductSnapshot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID string             `bson:"product_id"`
	Product   Product            `bson:"product"`
	CachedAt  primitive.DateTime `bson:"cached_at"`
}
