package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/phone_market/internal/httpserver"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/pkg/config"
	pkgdb "github.com/Skotchmaster/phone_market/pkg/db"
	"github.com/Skotchmaster/phone_market/pkg/events"
	"github.com/Skotchmaster/phone_market/pkg/logging"
	"github.com/Skotchmaster/phone_market/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/phone_market/pkg/middleware/logging"
	"github.com/Skotchmaster/phone_market/pkg/search"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	store := &repo.GormRepo{DB: db}
	if err := store.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}

	authSvc := &service.AuthService{Repo: store, JWTSecret: cfg.JWTAccessSecret, AccessTTL: cfg.AccessTokenTTL}
	if created, err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("seed_admin_error", "error", err)
	} else if created {
		logger.Info("admin_seeded", "email", cfg.AdminEmail)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			cancel()
			log.Fatalf("kafka: %v", err)
		}
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		} else {
			index = client
		}
	}
	cancel()

	orders := &service.OrderService{Repo: store, Events: publisher, OrdersTopic: cfg.KafkaTopicOrders}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:  auth.New(cfg.JWTAccessSecret, authSvc.IsActive),
		Ready: store.Ping,
		AuthH: &httpserver.AuthHTTP{Svc: authSvc},
		Products: &httpserver.ProductHTTP{Svc: &service.CatalogService{
			Repo:          store,
			Index:         index,
			Events:        publisher,
			ProductsTopic: cfg.KafkaTopicProducts,
		}},
		Cart:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: store}},
		Wishlist: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: store}},
		Orders: &httpserver.OrderHTTP{
			Svc: orders,
			Payments: &service.PaymentService{
				Repo:        store,
				Secret:      cfg.PaymentWebhookSecret,
				Events:      publisher,
				OrdersTopic: cfg.KafkaTopicOrders,
			},
		},
		Admin: &httpserver.AdminHTTP{Svc: &service.AdminService{
			Repo:          store,
			Index:         index,
			Events:        publisher,
			ProductsTopic: cfg.KafkaTopicProducts,
		}},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	logger.Info("server_stopped")
}
