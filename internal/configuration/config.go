package configuration

import (
	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

type Config struct {
	ServerAddress      string
	DatabaseURI        string
	RedisAddress       string
	VendorAppKey       string
	VendorAppSecret    string
	VendorTrackingID   string
	TranslatorURL      string
	TranslatorKey      string
	TranslatorModel    string
	BotToken           string
	BotAPIURL          string
	BotUsername        string
	AdminIDs           []int64
	DailyTopSchedule   string
	PriceSweepSchedule string
	LogLevel           string
	LogToFile          bool
	AuthSecretKey      jwk.Key
}

type tomlConfig struct {
	ServerAddress      string  `toml:"server_address"`
	DatabaseURI        string  `toml:"database_uri"`
	RedisAddress       string  `toml:"redis_address"`
	VendorAppKey       string  `toml:"vendor_app_key"`
	VendorAppSecret    string  `toml:"vendor_app_secret"`
	VendorTrackingID   string  `toml:"vendor_tracking_id"`
	TranslatorURL      string  `toml:"translator_url"`
	TranslatorKey      string  `toml:"translator_key"`
	TranslatorModel    string  `toml:"translator_model"`
	BotToken           string  `toml:"bot_token"`
	BotAPIURL          string  `toml:"bot_api_url"`
	BotUsername        string  `toml:"bot_username"`
	AdminIDs           []int64 `toml:"admin_ids"`
	DailyTopSchedule   string  `toml:"daily_top_schedule"`
	PriceSweepSchedule string  `toml:"price_sweep_schedule"`
	LogLevel           string  `toml:"log_level"`
	LogToFile          bool    `toml:"log_to_file"`
	AuthSecretKey      string  `toml:"auth_secret_key"`
}

func GetConfig(path string) (*Config, error) {
	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode toml file with path: %s", path)
	}

	if tc.ServerAddress == "" {
		tc.ServerAddress = "localhost:8888"
	}

	if tc.DatabaseURI == "" {
		tc.DatabaseURI = "mongodb://localhost:27017"
	}

	if tc.RedisAddress == "" {
		tc.RedisAddress = "localhost:6379"
	}

	if tc.BotToken == "" {
		return nil, errors.New("bot_token is not set")
	}

	if tc.BotAPIURL == "" {
		tc.BotAPIURL = "https://api.telegram.org"
	}

	if tc.BotUsername == "" {
		return nil, errors.New("bot_username is not set")
	}

	if tc.TranslatorURL == "" {
		tc.TranslatorURL = "https://api.openai.com/v1/chat/completions"
	}

	if tc.TranslatorModel == "" {
		tc.TranslatorModel = "gpt-4o-mini"
	}

	if tc.DailyTopSchedule == "" {
		tc.DailyTopSchedule = "0 9 * * *"
	}
	if tc.PriceSweepSchedule == "" {
		tc.PriceSweepSchedule = "0 */6 * * *"
	}
	cronParser := cron.ParseStandard
	if _, err = cronParser(tc.DailyTopSchedule); err != nil {
		return nil, errors.Wrapf(err, "failed to parse daily_top_schedule: %s", tc.DailyTopSchedule)
	}
	if _, err = cronParser(tc.PriceSweepSchedule); err != nil {
		return nil, errors.Wrapf(err, "failed to parse price_sweep_schedule: %s", tc.PriceSweepSchedule)
	}

	if tc.LogLevel == "" {
		tc.LogLevel = "INFO"
	}

	if tc.AuthSecretKey == "" {
		return nil, errors.New("auth_secret_key is not set")
	}

	authSecretKey, err := jwk.FromRaw([]byte(tc.AuthSecretKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create key from auth_secret_key")
	}

	return &Config{
		ServerAddress:      tc.ServerAddress,
		DatabaseURI:        tc.DatabaseURI,
		RedisAddress:       tc.RedisAddress,
		VendorAppKey:       tc.VendorAppKey,
		VendorAppSecret:    tc.VendorAppSecret,
		VendorTrackingID:   tc.VendorTrackingID,
		TranslatorURL:      tc.TranslatorURL,
		TranslatorKey:      tc.TranslatorKey,
		TranslatorModel:    tc.TranslatorModel,
		BotToken:           tc.BotToken,
		BotAPIURL:          tc.BotAPIURL,
		BotUsername:        tc.BotUsername,
		AdminIDs:           tc.AdminIDs,
		DailyTopSchedule:   tc.DailyTopSchedule,
		PriceSweepSchedule: tc.PriceSweepSchedule,
		LogLevel:           tc.LogLevel,
		LogToFile:          tc.LogToFile,
		AuthSecretKey:      authSecretKey,
	}, nil
}
