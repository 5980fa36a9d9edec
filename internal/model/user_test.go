package model

import "testing"

func TestCurrencyForCountry(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"Ukraine", "UAH"},
		{"Germany", "EUR"},
		{"Poland", "PLN"},
		{"Czech Republic", "CZK"},
		{"Romania", "RON"},
		{"United Kingdom", "GBP"},
		{"Kazakhstan", "KZT"},
		{"Atlantis", "USD"},
		{"", "USD"},
	}
	for _, tt := range tests {
		if got := CurrencyForCountry(tt.country); got != tt.want {
			t.Errorf("CurrencyForCountry(%q) = %s, want %s", tt.country, got, tt.want)
		}
	}
}
