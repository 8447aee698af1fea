package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/fredmak/hostel-manager/internal/config"
	"github.com/fredmak/hostel-manager/internal/database"
	"github.com/fredmak/hostel-manager/internal/handler"
	"github.com/fredmak/hostel-manager/internal/middleware"
	"github.com/fredmak/hostel-manager/internal/queue"
	"github.com/fredmak/hostel-manager/internal/repository"
	"github.com/fredmak/hostel-manager/internal/router"
	"github.com/fredmak/hostel-manager/internal/storage"
	"github.com/fredmak/hostel-manager/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Seed the manager account before the server accepts logins.
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.SeedManager(ctx, db, cfg.AdminEmail, hash); err != nil {
			log.Printf("seed manager: %v", err)
		}
		cancel()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	store := storage.New(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	if store == nil {
		log.Println("storage service not configured; media uploads disabled")
	}

	roomRepo := repository.NewRoomRepo(db)
	residentRepo := repository.NewResidentRepo(db)
	occupancyRepo := repository.NewOccupancyRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	applicationRepo := repository.NewApplicationRepo(db)
	maintenanceRepo := repository.NewMaintenanceRepo(db)
	mediaRepo := repository.NewMediaRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	userRepo := repository.NewUserRepo(db)

	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.AccessTTLMin)
	roomHandler := handler.NewRoomHandler(roomRepo, occupancyRepo, settingsRepo, cfg.AcademicYear)
	residentHandler := handler.NewResidentHandler(residentRepo, occupancyRepo, settingsRepo, cfg.AcademicYear)
	occupancyHandler := handler.NewOccupancyHandler(occupancyRepo, roomRepo, residentRepo, settingsRepo, cfg.AcademicYear)
	paymentHandler := handler.NewPaymentHandler(paymentRepo, residentRepo, occupancyRepo, settingsRepo, cfg.AcademicYear)
	applicationHandler := handler.NewApplicationHandler(applicationRepo, userRepo)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceRepo, db)
	mediaHandler := handler.NewMediaHandler(mediaRepo, store)
	settingsHandler := handler.NewSettingsHandler(settingsRepo, cfg.AcademicYear)
	setupHandler := handler.NewSetupHandler(db, roomRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewHomeHandler(roomRepo, occupancyRepo, settingsRepo, cfg.AcademicYear), mediaHandler, applicationHandler, cacheMW, limitMW)
	router.RegisterAuth(e, authHandler)
	router.RegisterAdmin(e, router.AdminHandlers{
		Auth:        authHandler,
		Rooms:       roomHandler,
		Residents:   residentHandler,
		Occupancies: occupancyHandler,
		Payments:    paymentHandler,
		Apps:        applicationHandler,
		Maintenance: maintenanceHandler,
		Media:       mediaHandler,
		Settings:    settingsHandler,
		Setup:       setupHandler,
	}, cfg.JWTSecret)

	// Background consumer; it reconnects forever and never stops the server.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
