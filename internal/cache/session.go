package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

const sessionTTL = 30 * time.Minute

// SearchSession is the per-user state needed to serve "show more" taps:
// the last query and how far into the results the user has paged.
type SearchSession struct {
	Query   string `json:"query"`
	Page    int    `json:"page"`
	HasMore bool   `json:"has_more"`
}

type SessionStore struct {
	Redis  *redis.Client
	Logger logger
}

func sessionKey(telegramID int64) string {
	return fmt.Sprintf("SESS-%d", telegramID)
}

func (ss SessionStore) SaveSearch(ctx context.Context, telegramID int64, s SearchSession) {
	if ss.Redis == nil {
		return
	}
	key := sessionKey(telegramID)
	sJSON, err := json.Marshal(s)
	if err != nil {
		ss.Logger.Errorf("SessionStore.SaveSearch: Error marshalling session, key: %s, err: %v", key, err)
		return
	}
	if err = ss.Redis.Set(ctx, key, sJSON, sessionTTL).Err(); err != nil {
		ss.Logger.Errorf("SessionStore.SaveSearch: Error caching session, key: %s, err: %v", key, err)
	}
}

func (ss SessionStore) LastSearch(ctx context.Context, telegramID int64) (SearchSession, bool) {
	var s SearchSession
	if ss.Redis == nil {
		return s, false
	}
	key := sessionKey(telegramID)
	cached, err := ss.Redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			ss.Logger.Errorf("SessionStore.LastSearch: Error getting Redis cache with key: %s, err: %v", key, err)
		}
		return s, false
	}
	if err = json.Unmarshal([]byte(cached), &s); err != nil {
		ss.Logger.Errorf("SessionStore.LastSearch: Error unmarshalling session, key: %s, err: %v", key, err)
		return s, false
	}
	return s, true
}
