package server

import (
	"context"
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"time"

	"buywise/internal/cache"
	"buywise/internal/client"
	"buywise/internal/locale"
	"buywise/internal/misc"
	"buywise/internal/model"
)

const (
	chatPageSize = 5
	topPageSize  = 10
)

type searchTier struct {
	minRating float64
	minOrders int
}

// qualityTiers maps a requested quality level to vendor-side floor values.
// The aliases exist because upstream prompts use both vocabularies.
var qualityTiers = map[string]searchTier{
	"minimum": {minRating: 4.0, minOrders: 50},
	"low":     {minRating: 4.0, minOrders: 50},
	"medium":  {minRating: 4.3, minOrders: 100},
	"average": {minRating: 4.3, minOrders: 100},
	"high":    {minRating: 4.7, minOrders: 300},
	"premium": {minRating: 4.7, minOrders: 300},
}

func tierFor(level string) searchTier {
	if t, ok := qualityTiers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return t
	}
	return searchTier{minRating: 4.5, minOrders: 0}
}

// scoreProduct blends rating, popularity, discount, shipping and price into
// one composite. Orders saturate at 100k via the log term. A cheapness
// preference only changes the price penalty weight.
func scoreProduct(p model.Product, preferCheaper bool) float64 {
	priceWeight := 0.05
	if preferCheaper {
		priceWeight = 0.15
	}
	score := 0.35*(p.Rating/5) +
		0.30*misc.Min(math.Log10(float64(p.Orders)+1)/5, 1) +
		0.20*(float64(p.DiscountPct)/100)
	if p.FreeShipping {
		score += 0.10
	}
	score -= priceWeight * misc.Min(p.Price/100, 1)
	return misc.Round3(score)
}

func paginate(ps []model.Product, page int, size int) ([]model.Product, bool) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = chatPageSize
	}
	start := (page - 1) * size
	if start >= len(ps) {
		return nil, false
	}
	end := misc.Min(start+size, len(ps))
	return ps[start:end], end < len(ps)
}

type SearchParams struct {
	Query         string
	Country       string
	Currency      string
	Quality       string
	MinRating     float64
	MinOrders     int
	MinPrice      float64
	MaxPrice      float64
	FreeShipping  bool
	DiscountOnly  bool
	PreferCheaper bool
	Page          int
	PageSize      int
}

type SearchResult struct {
	Success  bool
	Query    string
	Products []model.Product
	HasMore  bool
}

// SearchProducts runs the full pipeline: translate, signed vendor query,
// quality filter, scoring, stable sort, page slice. Vendor trouble and
// missing credentials both degrade to Success: false; the error never
// escapes past this boundary.
func (s Server) SearchProducts(ctx context.Context, userID int64, p SearchParams) SearchResult {
	query := s.Client.TranslateQuery(ctx, p.Query)

	ps, err := s.Client.AliExpressProductQuery(ctx, client.ProductQuery{
		Keywords:     query,
		Country:      p.Country,
		Currency:     p.Currency,
		MaxPrice:     p.MaxPrice,
		FreeShipping: p.FreeShipping,
	})
	if err != nil {
		s.Logger.Errorf("SearchProducts: Vendor query failed, query: %s, err: %v", misc.StringLimit(query, 50), err)
		return SearchResult{Success: false, Query: query}
	}

	tier := tierFor(p.Quality)
	minRating := misc.Max(tier.minRating, p.MinRating)
	minOrders := misc.Max(tier.minOrders, p.MinOrders)

	filtered := make([]model.Product, 0, len(ps))
	for _, prod := range ps {
		if prod.Rating < minRating || prod.Orders < minOrders {
			continue
		}
		if p.MinPrice > 0 && prod.Price < p.MinPrice {
			continue
		}
		if p.MaxPrice > 0 && prod.Price > p.MaxPrice {
			continue
		}
		if p.DiscountOnly && prod.DiscountPct == 0 {
			continue
		}
		prod.Score = scoreProduct(prod, p.PreferCheaper)
		filtered = append(filtered, prod)
	}
	// Stable sort keeps the vendor's cheapest-first order among equal scores.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	// Later pages of the same search do not create new history entries.
	if userID != 0 && p.Page <= 1 {
		if err := s.DB.SearchHistoryInsert(ctx, model.SearchHistoryEntry{
			TelegramID:  userID,
			Query:       p.Query,
			ResultCount: len(filtered),
		}); err != nil {
			s.Logger.Errorf("SearchProducts: Error inserting SearchHistoryEntry, UserID: %d, err: %v", userID, err)
		}
	}

	pageItems, hasMore := paginate(filtered, p.Page, p.PageSize)
	for _, prod := range pageItems {
		s.Snapshots.Put(prod)
	}
	return SearchResult{Success: true, Query: query, Products: pageItems, HasMore: hasMore}
}

func (s Server) handleSearch(ctx context.Context, chatID int64, user model.UserProfile, lang string, query string, page int) error {
	res := s.SearchProducts(ctx, user.TelegramID, SearchParams{
		Query:    query,
		Country:  user.Country,
		Currency: user.Currency,
		Page:     page,
		PageSize: chatPageSize,
	})
	if !res.Success {
		return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "search_failed"), nil)
	}
	if len(res.Products) == 0 {
		return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "search_none"), nil)
	}

	if err := s.Chat.SendMessage(ctx, chatID, locale.Tf(lang, "search_header", htmlEscape(query)), nil); err != nil {
		return err
	}
	for _, p := range res.Products {
		if err := s.sendProductCard(ctx, chatID, lang, p); err != nil {
			s.Logger.Errorf("handleSearch: Error sending product card, ProductID: %s, err: %v", p.ProductID, err)
		}
		time.Sleep(100 * time.Millisecond)
	}

	s.Sessions.SaveSearch(ctx, user.TelegramID, cache.SearchSession{Query: query, Page: page, HasMore: res.HasMore})
	if res.HasMore {
		kb := [][]client.InlineButton{{{Text: locale.T(lang, "more"), CallbackData: "more:"}}}
		return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "menu"), kb)
	}
	return nil
}

// handleTop renders the day's best deals as one compact list instead of
// individual cards.
func (s Server) handleTop(ctx context.Context, chatID int64, user model.UserProfile, lang string) error {
	res := s.SearchProducts(ctx, 0, SearchParams{
		Query:     dailyTopQuery,
		Country:   user.Country,
		Currency:  user.Currency,
		MinRating: 4.5,
		MinOrders: 100,
		MinPrice:  1,
		Page:      1,
		PageSize:  topPageSize,
	})
	if !res.Success {
		return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "search_failed"), nil)
	}
	if len(res.Products) == 0 {
		return s.Chat.SendMessage(ctx, chatID, locale.T(lang, "search_none"), nil)
	}
	var sb strings.Builder
	sb.WriteString(locale.Tf(lang, "top_title", user.Country))
	for i, p := range res.Products {
		sb.WriteString(fmt.Sprintf("\n%d. <a href=\"%s\">%s</a> — %.2f %s ⭐%.1f",
			i+1, p.AffiliateURL, htmlEscape(misc.StringLimit(p.Title, 50)), p.Price, p.Currency, p.Rating))
	}
	return s.Chat.SendMessage(ctx, chatID, sb.String(), nil)
}

func (s Server) sendProductCard(ctx context.Context, chatID int64, lang string, p model.Product) error {
	caption := productCaption(lang, p)
	kb := [][]client.InlineButton{{
		{Text: locale.T(lang, "fav"), CallbackData: "fav:" + p.ProductID},
		{Text: locale.T(lang, "buy"), URL: p.AffiliateURL},
	}}
	if p.ImageURL != "" {
		return s.Chat.SendPhoto(ctx, chatID, p.ImageURL, caption, kb)
	}
	return s.Chat.SendMessage(ctx, chatID, caption, kb)
}

func productCaption(lang string, p model.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n", htmlEscape(misc.StringLimit(p.Title, 100)))
	fmt.Fprintf(&sb, "💰 %.2f %s", p.Price, p.Currency)
	if p.DiscountPct > 0 {
		fmt.Fprintf(&sb, " (-%d%%)", p.DiscountPct)
	}
	fmt.Fprintf(&sb, "\n⭐ %.1f · 📦 %d", p.Rating, p.Orders)
	if p.FreeShipping {
		sb.WriteString(" · 🚚")
	}
	return sb.String()
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
