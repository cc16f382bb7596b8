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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/skvortsov/order-management/internal/clients"
	"github.com/skvortsov/order-management/internal/config"
	"github.com/skvortsov/order-management/internal/events"
	"github.com/skvortsov/order-management/internal/httpserver"
	"github.com/skvortsov/order-management/internal/models"
	"github.com/skvortsov/order-management/internal/repo"
	"github.com/skvortsov/order-management/internal/service"
	"github.com/skvortsov/order-management/pkg/db"
	"github.com/skvortsov/order-management/pkg/logging"
	loggingmw "github.com/skvortsov/order-management/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := database.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	var publisher service.EventPublisher
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, "order_events")
		publisher = producer
	}

	svc := &service.OrderService{
		Repo:     &repo.GormRepo{DB: database},
		Users:    clients.NewUserClient(cfg.UserServiceURL, cfg.UserTimeout()),
		Products: clients.NewProductClient(cfg.ProductServiceURL, cfg.ProductTimeout()),
		Events:   publisher,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: svc},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
