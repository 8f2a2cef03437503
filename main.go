package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bookshelf/internal/api"
	"bookshelf/internal/auth"
	"bookshelf/internal/config"
	"bookshelf/internal/logger"
	"bookshelf/internal/monitoring"
	"bookshelf/internal/services"
	"bookshelf/internal/store"
	"bookshelf/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}
	if err := os.MkdirAll(cfg.BackupPath, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create backup directory")
	}

	// Set up stores
	var (
		books store.BookStore
		users store.UserStore
	)
	booksPath := filepath.Join(cfg.DataDir, cfg.BooksFile)
	usersPath := filepath.Join(cfg.DataDir, cfg.UsersFile)
	backupSources := []string{booksPath, usersPath}

	switch cfg.StoreBackend {
	case "sqlite":
		dbPath := filepath.Join(cfg.DataDir, cfg.DatabasePath)
		db, err := store.Open(dbPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()

		books, err = store.NewSQLiteBookStore(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize book store")
		}
		users = store.NewSQLiteUserStore(db)
		backupSources = []string{dbPath}
	default:
		books, err = store.NewJSONBookStore(booksPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize book store")
		}
		users, err = store.NewJSONUserStore(usersPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize user store")
		}
	}

	// Set up WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	eventService := services.NewEventService()
	userService := services.NewUserService(users)
	bookService := services.NewBookService(books, eventService, hub)

	// Set up and run the background backup scheduler
	scheduler, err := monitoring.NewScheduler(cfg.BackupSchedule, backupSources, cfg.BackupPath, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up backup scheduler")
	}
	go scheduler.Run()

	// Set up router and server
	router := api.NewRouter(tokens, hub, userService, bookService, eventService)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
