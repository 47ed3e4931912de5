package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cthayes8/tlco-waitlist/internal/http/handlers"
	"github.com/cthayes8/tlco-waitlist/internal/mailer"
	"github.com/cthayes8/tlco-waitlist/internal/ratelimit"
	"github.com/cthayes8/tlco-waitlist/internal/repo/postgres"
	"github.com/cthayes8/tlco-waitlist/internal/service"
	"github.com/cthayes8/tlco-waitlist/pkg/config"
	"github.com/cthayes8/tlco-waitlist/pkg/database"
	"github.com/cthayes8/tlco-waitlist/pkg/events"
	"github.com/cthayes8/tlco-waitlist/pkg/logger"
	mw "github.com/cthayes8/tlco-waitlist/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MinConns, cfg.Database.MaxConns, cfg.Database.MaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Optional analytics event stream
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsPub.Close()
		publisher = natsPub
	}

	// Optional signup rate limiter
	var limiter *ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = ratelimit.New(rdb, cfg.Redis.Requests, cfg.Redis.Window)
	}

	// Mailer
	var mailService mailer.Service
	if cfg.Email.DevMode {
		mailService = mailer.NewDevMailer()
	} else {
		mailService = mailer.NewMailerSend(
			cfg.Email.MailerSendKey,
			cfg.Email.FromName,
			cfg.Email.FromEmail,
			cfg.Email.SubscriptionTo,
			cfg.Email.SendTimeout,
		)
	}

	// Wire repositories, services, handlers
	waitlistRepo := postgres.NewWaitlistRepository(pool)
	signupService := service.NewSignupService(waitlistRepo, mailService, publisher)
	h := handlers.New(signupService, limiter, cfg.Admin.APIKey)

	// Setup router
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("waitlist"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Mount("/", handlers.Router(h))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down waitlist service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Waitlist service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting waitlist service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Waitlist service error", "error", err)
		os.Exit(1)
	}
}
