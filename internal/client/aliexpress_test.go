package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

type testLogger struct{}

func (testLogger) Debugf(format string, v ...any) {}
func (testLogger) Infof(format string, v ...any)  {}
func (testLogger) Warnf(format string, v ...any)  {}
func (testLogger) Errorf(format string, v ...any) {}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fixedResponseClient(status int, body string, gotForm *map[string]string) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if gotForm != nil {
			if err := req.ParseForm(); err == nil {
				m := map[string]string{}
				for k := range req.PostForm {
					m[k] = req.PostForm.Get(k)
				}
				*gotForm = m
			}
		}
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}
}

func TestSignRequest(t *testing.T) {
	params := map[string]string{
		"app_key":     "12345",
		"keywords":    "usb hub",
		"sign_method": "hmac-sha256",
		"timestamp":   "2024-01-02 03:04:05",
	}
	want := "F36E38CEA0194D232C402FF95BD7C3FD61F3B4D3B90E2A17598D6DF029F68285"
	if got := signRequest(params, "testsecret"); got != want {
		t.Errorf("signRequest() = %s, want %s", got, want)
	}
}

func TestShipToCountry(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"Ukraine", "UA"},
		{"United Kingdom", "GB"},
		{"Czech Republic", "CZ"},
		{"Atlantis", "US"},
		{"", "US"},
	}
	for _, tt := range tests {
		if got := shipToCountry(tt.country); got != tt.want {
			t.Errorf("shipToCountry(%q) = %s, want %s", tt.country, got, tt.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"93.5%", 4.675},
		{"100%", 5},
		{"0%", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseRating(tt.in); got != tt.want {
			t.Errorf("parseRating(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		discount  string
		price     float64
		origPrice float64
		want      int
	}{
		{"45%", 10, 20, 45},
		{"0%", 10, 20, 0},
		{"", 10, 20, 50},
		{"", 15, 20, 25},
		{"", 20, 20, 0},
		{"", 10, 0, 0},
		{"garbage", 7.5, 10, 25},
	}
	for _, tt := range tests {
		got := parseDiscount(tt.discount, tt.price, tt.origPrice)
		if got != tt.want {
			t.Errorf("parseDiscount(%q, %v, %v) = %d, want %d", tt.discount, tt.price, tt.origPrice, got, tt.want)
		}
	}
}

const sampleQueryResponse = `{
	"aliexpress_affiliate_product_query_response": {
		"resp_result": {
			"result": {
				"products": {
					"product": [
						{
							"product_id": 1005001234567890,
							"product_title": "  USB C Hub 7 in 1  ",
							"target_sale_price": "15.99",
							"target_original_price": "31.98",
							"target_sale_price_currency": "USD",
							"discount": "50%",
							"evaluate_rate": "96.0%",
							"lastest_volume": 2431,
							"product_main_image_url": "https://img.example/hub.jpg",
							"product_detail_url": "https://item.example/1005001234567890.html",
							"promotion_link": "https://s.click.example/abc",
							"ship_to_days": "10"
						},
						{
							"product_id": 1005009999999999,
							"product_title": "",
							"target_sale_price": "1.00"
						},
						{
							"product_id": 1005008888888888,
							"product_title": "Plain Cable",
							"target_sale_price": "",
							"target_original_price": "3.50",
							"lastest_volume": 12
						}
					]
				}
			}
		}
	}
}`

func TestAliExpressProductQuery(t *testing.T) {
	var form map[string]string
	c := Client{
		Client:           fixedResponseClient(http.StatusOK, sampleQueryResponse, &form),
		VendorAppKey:     "key",
		VendorAppSecret:  "secret",
		VendorTrackingID: "track",
		Logger:           testLogger{},
	}

	ps, err := c.AliExpressProductQuery(context.Background(), ProductQuery{
		Keywords:     "usb hub",
		Country:      "Germany",
		Currency:     "EUR",
		MaxPrice:     25,
		FreeShipping: true,
	})
	if err != nil {
		t.Fatalf("AliExpressProductQuery() error: %v", err)
	}

	if len(ps) != 2 {
		t.Fatalf("got %d products, want 2 (untitled product should be skipped)", len(ps))
	}
	p := ps[0]
	if p.ProductID != "1005001234567890" {
		t.Errorf("ProductID = %s", p.ProductID)
	}
	if p.Title != "USB C Hub 7 in 1" {
		t.Errorf("Title = %q, want trimmed title", p.Title)
	}
	if p.Price != 15.99 || p.OriginalPrice != 31.98 {
		t.Errorf("Price = %v, OriginalPrice = %v", p.Price, p.OriginalPrice)
	}
	if p.Rating != 4.8 {
		t.Errorf("Rating = %v, want 4.8", p.Rating)
	}
	if p.Orders != 2431 {
		t.Errorf("Orders = %d, want 2431", p.Orders)
	}
	if p.DiscountPct != 50 {
		t.Errorf("DiscountPct = %d, want 50", p.DiscountPct)
	}
	if !p.FreeShipping {
		t.Error("FreeShipping = false, want true")
	}
	if p.AffiliateURL != "https://s.click.example/abc" {
		t.Errorf("AffiliateURL = %s, want promotion link", p.AffiliateURL)
	}

	cable := ps[1]
	if cable.Price != 3.50 || cable.OriginalPrice != 3.50 {
		t.Errorf("missing sale price should fall back to original, got Price = %v, OriginalPrice = %v",
			cable.Price, cable.OriginalPrice)
	}
	if cable.Currency != "EUR" {
		t.Errorf("Currency = %s, want query currency fallback", cable.Currency)
	}
	if cable.AffiliateURL != "" {
		t.Errorf("AffiliateURL = %s, want empty", cable.AffiliateURL)
	}
	if cable.FreeShipping {
		t.Error("FreeShipping = true, want false")
	}

	if form["method"] != "aliexpress.affiliate.product.query" {
		t.Errorf("method param = %s", form["method"])
	}
	if form["ship_to_country"] != "DE" {
		t.Errorf("ship_to_country = %s, want DE", form["ship_to_country"])
	}
	if form["max_sale_price"] != "2500" {
		t.Errorf("max_sale_price = %s, want 2500 (cents)", form["max_sale_price"])
	}
	if form["delivery_days"] != "60" {
		t.Errorf("delivery_days = %s, want 60", form["delivery_days"])
	}
	if form["tracking_id"] != "track" {
		t.Errorf("tracking_id = %s", form["tracking_id"])
	}
	if form["sign"] == "" {
		t.Error("sign param missing")
	}
}

func TestAliExpressProductQueryCanceledContext(t *testing.T) {
	// The transport honors the request context, so the query only fails if
	// the caller's context actually made it onto the request.
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if err := req.Context().Err(); err != nil {
			return nil, err
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     http.StatusText(http.StatusOK),
			Body:       io.NopCloser(strings.NewReader(sampleQueryResponse)),
		}, nil
	})
	c := Client{
		Client:          &http.Client{Transport: transport},
		VendorAppKey:    "key",
		VendorAppSecret: "secret",
		Logger:          testLogger{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.AliExpressProductQuery(ctx, ProductQuery{Keywords: "usb hub"}); err == nil {
		t.Error("AliExpressProductQuery() succeeded with a canceled context, want error")
	}
}

func TestAliExpressProductQueryNotConfigured(t *testing.T) {
	c := Client{Logger: testLogger{}}
	_, err := c.AliExpressProductQuery(context.Background(), ProductQuery{Keywords: "usb hub"})
	if !errors.Is(err, ErrAliExpressNotConfigured) {
		t.Errorf("err = %v, want ErrAliExpressNotConfigured", err)
	}
}

func TestAliExpressProductQueryErrorResponse(t *testing.T) {
	body := `{"error_response": {"code": "25", "msg": "Invalid signature"}}`
	c := Client{
		Client:          fixedResponseClient(http.StatusOK, body, nil),
		VendorAppKey:    "key",
		VendorAppSecret: "secret",
		Logger:          testLogger{},
	}
	_, err := c.AliExpressProductQuery(context.Background(), ProductQuery{Keywords: "usb hub"})
	if !errors.Is(err, ErrAliExpress) {
		t.Errorf("err = %v, want ErrAliExpress", err)
	}
	if err == nil || !strings.Contains(err.Error(), "Invalid signature") {
		t.Errorf("err = %v, want vendor message included", err)
	}
}
