package server

import (
	"context"

	"buywise/internal/cache"
	"buywise/internal/client"
	"buywise/internal/database"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

type Server struct {
	DB            database.Database
	Client        client.Client
	Chat          chatSender
	Snapshots     *cache.SnapshotCache
	Sessions      cache.SessionStore
	Logger        logger
	AuthSecretKey jwk.Key
	AdminIDs      []int64
	BotUsername   string
}

type logger interface {
	Debug(v ...any)
	Info(v ...any)
	Error(v ...any)
	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

type chatSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]client.InlineButton) error
	SendPhoto(ctx context.Context, chatID int64, photoURL string, caption string, keyboard [][]client.InlineButton) error
}

func (s Server) isAdmin(telegramID int64) bool {
	for _, id := range s.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
