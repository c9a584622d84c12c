package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekoval/bookrental/internal/config"
	"github.com/ekoval/bookrental/internal/es"
	"github.com/ekoval/bookrental/internal/events"
	"github.com/ekoval/bookrental/internal/httpserver"
	"github.com/ekoval/bookrental/internal/logging"
	"github.com/ekoval/bookrental/internal/middleware"
	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/repo"
	"github.com/ekoval/bookrental/internal/service"
	"github.com/ekoval/bookrental/internal/tokens"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.AutoMigrate(&models.Bookstore{}, &models.User{}, &models.Book{}, &models.Rental{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(strings.Split(cfg.KafkaAddress, ","))
		defer producer.Close()
	}

	booksHTTP := &httpserver.BooksHTTP{
		Svc:     &service.BookService{Repo: gormRepo},
		ESIndex: cfg.ESIndex,
	}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		booksHTTP.ES = esClient
	}

	authHTTP := &httpserver.AuthHTTP{
		Svc: &service.AuthService{
			Repo: gormRepo,
			Issuer: &tokens.Issuer{
				AccessSecret:  cfg.AccessSecret,
				RefreshSecret: cfg.RefreshSecret,
				AccessTTL:     cfg.AccessTTL,
				RefreshTTL:    cfg.RefreshTTL,
			},
			BcryptCost: cfg.BcryptCost,
		},
	}
	if producer != nil {
		authHTTP.Producer = producer
		booksHTTP.Producer = producer
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:       authHTTP,
		Books:      booksHTTP,
		Bookstores: &httpserver.BookstoresHTTP{Repo: gormRepo},
		AuthMw: &middleware.Auth{
			Repo:          gormRepo,
			AccessSecret:  cfg.AccessSecret,
			RefreshSecret: cfg.RefreshSecret,
		},
	})

	go func() {
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
