package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinelane/ticketing/internal/config"
	"github.com/cinelane/ticketing/internal/database"
	"github.com/cinelane/ticketing/internal/handler"
	"github.com/cinelane/ticketing/internal/image"
	"github.com/cinelane/ticketing/internal/queue"
	"github.com/cinelane/ticketing/internal/repository"
	"github.com/cinelane/ticketing/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	viewerRepo := repository.NewViewerRepo(db)
	sellerRepo := repository.NewSellerRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	viewerImages, err := newImageManager(cfg.ViewerImageStrategy, cfg.UploadsDir, "viewers", viewerRepo)
	if err != nil {
		log.Fatalf("viewer image store: %v", err)
	}
	sellerImages, err := newImageManager(cfg.SellerImageStrategy, cfg.UploadsDir, "sellers", sellerRepo)
	if err != nil {
		log.Fatalf("seller image store: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; caching and rate limiting degrade off

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	authHandler := handler.NewAuthHandler(cfg, staffRepo, tokenRepo)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAPI(e, router.Handlers{
		Viewers: handler.NewViewerHandler(viewerRepo, viewerImages),
		Sellers: handler.NewSellerHandler(sellerRepo, sellerImages),
		Tickets: handler.NewTicketHandler(ticketRepo),
		Orders:  handler.NewOrderHandler(orderRepo, true),
		Images:  handler.NewImageHandler(viewerImages, sellerImages),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func openDB(cfg config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case "sqlite":
		return database.OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func newImageManager(strategy, uploadsDir, kind string, owners image.OwnerStore) (*image.Manager, error) {
	if strategy == config.StrategyInline {
		return image.NewManager(image.InlineStore{}, owners), nil
	}
	fs, err := image.NewFileStore(uploadsDir, kind)
	if err != nil {
		return nil, err
	}
	return image.NewManager(fs, owners), nil
}
