package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/bot"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/interpreter"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/internal/storage"
	"github.com/niteash/Telegram-ExpenseTracker-Bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Load keyword tables
	keywords, err := interpreter.DefaultKeywords()
	if cfg.Ledger.KeywordsFile != "" {
		keywords, err = interpreter.LoadKeywords(cfg.Ledger.KeywordsFile)
	}
	if err != nil {
		logger.Fatal("Failed to load keyword tables", zap.Error(err))
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.Storage.Backend {
	case "memory":
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage(cfg.Ledger.DefaultCurrency)
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Storage.Database.Host,
			Port:     cfg.Storage.Database.Port,
			User:     cfg.Storage.Database.User,
			Password: cfg.Storage.Database.Password,
			DBName:   cfg.Storage.Database.DBName,
			SSLMode:  cfg.Storage.Database.SSLMode,
		}, cfg.Ledger.DefaultCurrency)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	default:
		logger.Info("Using file storage", zap.String("path", cfg.Storage.DataFile))
		store, err = storage.NewFileStorage(cfg.Storage.DataFile, cfg.Ledger.DefaultCurrency, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Keep-alive endpoint for hosts that ping the process
	if cfg.Server.Port > 0 {
		go func() {
			http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, "ok")
			})
			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			if err := http.ListenAndServe(addr, nil); err != nil {
				logger.Error("Keep-alive server stopped", zap.Error(err))
			}
		}()
	}

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, store, interpreter.New(keywords), logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
