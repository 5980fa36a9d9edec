package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"buywise/internal/misc"
	"buywise/internal/model"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

var ErrAliExpress = errors.New("AliExpress error")
var ErrAliExpressNotConfigured = errors.New("AliExpress credentials not configured")

const aliExpressGatewayURL = "https://api-sg.aliexpress.com/sync"

type ProductQuery struct {
	Keywords     string
	Country      string
	Currency     string
	MaxPrice     float64
	FreeShipping bool
	PageNo       int
}

var shipToCountries = map[string]string{
	"Ukraine":        "UA",
	"Germany":        "DE",
	"Poland":         "PL",
	"United Kingdom": "GB",
	"France":         "FR",
	"Spain":          "ES",
	"Italy":          "IT",
	"Czech Republic": "CZ",
	"Romania":        "RO",
	"Russia":         "RU",
	"United States":  "US",
	"Canada":         "CA",
	"Brazil":         "BR",
	"Turkey":         "TR",
	"Kazakhstan":     "KZ",
}

func shipToCountry(country string) string {
	if code, ok := shipToCountries[country]; ok {
		return code
	}
	return "US"
}

type aliExpressProduct struct {
	ProductID     json.Number `json:"product_id"`
	ProductTitle  string      `json:"product_title"`
	SalePrice     string      `json:"target_sale_price"`
	OriginalPrice string      `json:"target_original_price"`
	Currency      string      `json:"target_sale_price_currency"`
	Discount      string      `json:"discount"`
	EvaluateRate  string      `json:"evaluate_rate"`
	LatestVolume  json.Number `json:"lastest_volume"`
	MainImageURL  string      `json:"product_main_image_url"`
	DetailURL     string      `json:"product_detail_url"`
	PromotionLink string      `json:"promotion_link"`
	ShipToDays    string      `json:"ship_to_days"`
}

type aliExpressQueryResponse struct {
	QueryResponse struct {
		RespResult struct {
			Result struct {
				Products struct {
					Product []aliExpressProduct `json:"product"`
				} `json:"products"`
			} `json:"result"`
		} `json:"resp_result"`
	} `json:"aliexpress_affiliate_product_query_response"`
	ErrorResponse *struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
	} `json:"error_response"`
}

// AliExpressProductQuery runs a signed affiliate product query and returns
// normalized products. Responses are cached in Redis for an hour since the
// same query is often paged through several times in a row.
func (c Client) AliExpressProductQuery(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	if c.VendorAppKey == "" || c.VendorAppSecret == "" {
		return nil, ErrAliExpressNotConfigured
	}
	if q.PageNo < 1 {
		q.PageNo = 1
	}

	var ps []model.Product
	cacheKey := fmt.Sprintf("AEPQ-%s|%s|%s|%d|%.2f", q.Keywords, q.Country, q.Currency, q.PageNo, q.MaxPrice)
	if c.Redis != nil {
		cached, err := c.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			c.Logger.Infof("AliExpressProductQuery: Cache found, key: %s", cacheKey)
			if err = json.Unmarshal([]byte(cached), &ps); err == nil {
				return ps, nil
			}
			c.Logger.Errorf("AliExpressProductQuery: Error unmarshalling cache, key: %s, err: %v", cacheKey, err)
		} else if err != redis.Nil {
			c.Logger.Errorf("AliExpressProductQuery: Error getting Redis cache with key: %s, err: %v", cacheKey, err)
		}
	}

	params := map[string]string{
		"app_key":         c.VendorAppKey,
		"method":          "aliexpress.affiliate.product.query",
		"sign_method":     "hmac-sha256",
		"timestamp":       time.Now().Format("2006-01-02 15:04:05"),
		"format":          "json",
		"v":               "2.0",
		"keywords":        q.Keywords,
		"target_currency": q.Currency,
		"target_language": "en",
		"ship_to_country": shipToCountry(q.Country),
		"page_no":         strconv.Itoa(q.PageNo),
		"page_size":       "40",
		"sort":            "SALE_PRICE_ASC",
	}
	if c.VendorTrackingID != "" {
		params["tracking_id"] = c.VendorTrackingID
	}
	if q.MaxPrice > 0 {
		params["max_sale_price"] = strconv.Itoa(int(q.MaxPrice * 100))
	}
	if q.FreeShipping {
		params["delivery_days"] = "60"
	}
	params["sign"] = signRequest(params, c.VendorAppSecret)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	req, err := newRequest(http.MethodPost, aliExpressGatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request to URL: %s", aliExpressGatewayURL)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	c.Logger.Infof("AliExpressProductQuery: Sending request, keywords: %s, country: %s, page: %d",
		misc.StringLimit(q.Keywords, 50), q.Country, q.PageNo)
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrAliExpress, "error doing request, err: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 1000*1024))
	if err != nil {
		return nil, errors.Wrapf(ErrAliExpress,
			"error reading AliExpressAPI response body, status: %s, body:\n%s,\nerr: %v",
			resp.Status, misc.BytesLimit(body, 2000), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrAliExpress, "status: %s, body:\n%s", resp.Status, misc.BytesLimit(body, 2000))
	}
	aeResp := aliExpressQueryResponse{}
	if err = json.Unmarshal(body, &aeResp); err != nil {
		return nil, errors.Wrapf(ErrAliExpress,
			"error unmarshalling AliExpressAPI response body, status: %s, body:\n%s,\nerr: %v",
			resp.Status, misc.BytesLimit(body, 2000), err)
	}
	if aeResp.ErrorResponse != nil {
		return nil, errors.Wrapf(ErrAliExpress, "error response from AliExpressAPI, code: %s, msg: %s",
			aeResp.ErrorResponse.Code, aeResp.ErrorResponse.Msg)
	}

	aeps := aeResp.QueryResponse.RespResult.Result.Products.Product
	ps = make([]model.Product, 0, len(aeps))
	for _, aep := range aeps {
		p := aep.toProduct(q.Currency)
		if p.ProductID == "" || p.Title == "" {
			c.Logger.Warnf("AliExpressProductQuery: Skipping unparseable product: %+v", aep)
			continue
		}
		ps = append(ps, p)
	}

	if c.Redis != nil {
		if psJSON, err := json.Marshal(ps); err != nil {
			c.Logger.Errorf("AliExpressProductQuery: Error marshalling Products to cache, key: %s, err: %v", cacheKey, err)
		} else if err = c.Redis.Set(ctx, cacheKey, psJSON, 1*time.Hour).Err(); err != nil {
			c.Logger.Errorf("AliExpressProductQuery: Error caching Products, key: %s, err: %v", cacheKey, err)
		}
	}

	return ps, nil
}

// signRequest concatenates the sorted key+value pairs and returns the
// uppercase hex HMAC-SHA256 over them, per the affiliate API contract.
func signRequest(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(params[k])
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

func (aep aliExpressProduct) toProduct(fallbackCurrency string) model.Product {
	price, _ := strconv.ParseFloat(aep.SalePrice, 64)
	origPrice, _ := strconv.ParseFloat(aep.OriginalPrice, 64)
	if price == 0 {
		price = origPrice
	}
	if origPrice == 0 {
		origPrice = price
	}
	currency := aep.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	affiliateURL := aep.PromotionLink
	if affiliateURL == "" {
		affiliateURL = aep.DetailURL
	}
	orders, _ := strconv.Atoi(aep.LatestVolume.String())
	return model.Product{
		ProductID:     aep.ProductID.String(),
		Title:         strings.TrimSpace(aep.ProductTitle),
		Price:         price,
		OriginalPrice: origPrice,
		Currency:      currency,
		Rating:        parseRating(aep.EvaluateRate),
		Orders:        orders,
		DiscountPct:   parseDiscount(aep.Discount, price, origPrice),
		ImageURL:      aep.MainImageURL,
		AffiliateURL:  affiliateURL,
		FreeShipping:  aep.ShipToDays != "",
	}
}

// parseRating maps the vendor's "93.5%" evaluation rate onto a 0-5 scale.
func parseRating(evaluateRate string) float64 {
	r, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(evaluateRate), "%"), 64)
	if err != nil {
		return 0
	}
	return r / 20
}

func parseDiscount(discount string, price, origPrice float64) int {
	if d, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(discount), "%")); err == nil && d >= 0 {
		return d
	}
	if origPrice > price && origPrice > 0 {
		return int((origPrice-price)/origPrice*100 + 0.5)
	}
	return 0
}
