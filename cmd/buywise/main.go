package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"buywise/internal/cache"
	"buywise/internal/client"
	"buywise/internal/configuration"
	"buywise/internal/database"
	"buywise/internal/logger"
	"buywise/internal/server"

	"github.com/go-redis/redis/v9"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/robfig/cron/v3"
)

func main() {
	runApp()
	time.Sleep(10 * time.Second)
	os.Exit(1)
}

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(logger.LevelInfo, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("buywise_backend.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	logLevel, err := logger.ParseLevel(config.LogLevel)
	if err != nil {
		appLogger.Error("Error parsing log_level:", err)
		return err
	}
	appLogger = logger.NewLogger(logLevel, logOutput)

	appLogger.Info("Connecting to DB at", config.DatabaseURI)
	dbConn, err := database.ConnectDB(appContext, config.DatabaseURI)
	if err != nil {
		appLogger.Error("Error connecting to DB:", err)
		return err
	}
	defer func() {
		if err := dbConn.Disconnect(appContext); err != nil {
			appLogger.Error("Error disconnecting from DB:", err)
		}
	}()
	db := database.Database{Database: dbConn.Database(database.Name)}

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client:", err)
		}
	}()

	translations, err := lru.New[string, string](1000)
	if err != nil {
		appLogger.Error("Error creating translation cache:", err)
		return err
	}

	appClient := client.Client{
		Client:           &http.Client{Timeout: 15 * time.Second},
		Redis:            redisClient,
		VendorAppKey:     config.VendorAppKey,
		VendorAppSecret:  config.VendorAppSecret,
		VendorTrackingID: config.VendorTrackingID,
		TranslatorURL:    config.TranslatorURL,
		TranslatorKey:    config.TranslatorKey,
		TranslatorModel:  config.TranslatorModel,
		BotAPIURL:        config.BotAPIURL,
		BotToken:         config.BotToken,
		Translations:     translations,
		Logger:           appLogger,
	}

	snapshots, err := cache.NewSnapshotCache(512, db, appLogger)
	if err != nil {
		appLogger.Error("Error creating snapshot cache:", err)
		return err
	}

	srv := server.Server{
		DB:            db,
		Client:        appClient,
		Chat:          appClient,
		Snapshots:     snapshots,
		Sessions:      cache.SessionStore{Redis: redisClient, Logger: appLogger},
		Logger:        appLogger,
		AuthSecretKey: config.AuthSecretKey,
		AdminIDs:      config.AdminIDs,
		BotUsername:   config.BotUsername,
	}

	c := cron.New()
	if _, err := c.AddFunc(config.DailyTopSchedule, func() {
		if _, err := srv.DailyTopBroadcast(context.Background()); err != nil {
			appLogger.Errorf("Error running daily top broadcast: %v", err)
		}
	}); err != nil {
		appLogger.Error("Error scheduling daily top broadcast:", err)
		return err
	}
	if _, err := c.AddFunc(config.PriceSweepSchedule, func() {
		if _, err := srv.PriceDropSweep(context.Background()); err != nil {
			appLogger.Errorf("Error running price drop sweep: %v", err)
		}
	}); err != nil {
		appLogger.Error("Error scheduling price drop sweep:", err)
		return err
	}
	appLogger.Info("Starting scheduler, daily top:", config.DailyTopSchedule, "price sweep:", config.PriceSweepSchedule)
	c.Start()
	defer c.Stop()

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	return httpSrv.ListenAndServe()
}
