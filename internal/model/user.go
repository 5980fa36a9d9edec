package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type UserProfile struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID          int64              `bson:"telegram_id"`
	DisplayName         string             `bson:"display_name"`
	Language            string             `bson:"language"`
	Country             string             `bson:"country"`
	Currency            string             `bson:"currency"`
	NotificationEnabled bool               `bson:"notification_enabled"`
	ReferralCode        string             `bson:"referral_code,omitempty"`
	ReferredBy          int64              `bson:"referred_by,omitempty"`
	CreatedAt           primitive.DateTime `bson:"created_at"`
	UpdatedAt           primitive.DateTime `bson:"updated_at"`
}

var countryCurrencies = map[string]string{
	"Ukraine":        "UAH",
	"Russia":         "RUB",
	"Germany":        "EUR",
	"France":         "EUR",
	"Spain":          "EUR",
	"Italy":          "EUR",
	"Poland":         "PLN",
	"Czech Republic": "CZK",
	"Romania":        "RON",
	"United Kingdom": "GBP",
	"United States":  "USD",
	"Canada":         "CAD",
	"Brazil":         "BRL",
	"Turkey":         "TRY",
	"Kazakhstan":     "KZT",
}

// CurrencyForCountry defaults to USD for unknown countries.
func CurrencyForCountry(country string) string {
	if c, ok := countryCurrencies[country]; ok {
		return c
	}
	return "USD"
}
