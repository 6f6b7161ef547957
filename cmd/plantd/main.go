package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"plant-care-backend/config"
	"plant-care-backend/internal/api"
	"plant-care-backend/internal/db"
	"plant-care-backend/internal/notification"
	"plant-care-backend/internal/photo"
	"plant-care-backend/internal/reminder"
	"plant-care-backend/internal/schedule"
	"plant-care-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "plant-backend ", log.LstdFlags)

	// A .env file is optional; real environments set variables directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed to read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Fatalf("invalid server timezone %q: %v", cfg.Server.Timezone, err)
	}

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys are not configured; push reminders are disabled")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	var uploader photo.Uploader
	if cfg.Photos.S3Bucket != "" {
		s3Uploader, err := photo.NewS3Uploader(ctx, cfg.Photos.S3Region, cfg.Photos.S3Bucket, cfg.Photos.PublicBaseURL)
		if err != nil {
			logger.Fatalf("failed to initialize S3 photo storage: %v", err)
		}
		uploader = s3Uploader
		logger.Printf("photos are stored in s3://%s/%s", cfg.Photos.S3Bucket, cfg.Photos.S3Prefix)
	}
	photos := photo.NewService(uploader, cfg.Photos.S3Prefix, cfg.Photos.MaxBytes)

	phrases := schedule.PhrasesFor(cfg.Server.Language)

	if webpushOptions != nil {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, notification.TextsFor(cfg.Server.Language))
		pool.Start(ctx)

		reminders, err := reminder.NewService(cfg.Reminder, appStore, pool, phrases)
		if err != nil {
			logger.Fatalf("failed to configure reminders: %v", err)
		}
		go func() {
			if err := reminders.Run(ctx); err != nil {
				logger.Printf("reminder service stopped: %v", err)
			}
		}()
	}

	router := api.NewRouter(appStore, cfg.Server, api.Options{
		Webpush:        webpushOptions,
		Photos:         photos,
		MaxPerWatering: cfg.Photos.MaxPerWater,
		Location:       loc,
		Phrases:        phrases,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
