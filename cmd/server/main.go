package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"diarium/internal/auth"
	"diarium/internal/cache"
	"diarium/internal/config"
	"diarium/internal/db"
	"diarium/internal/handler"
	"diarium/internal/logger"
	"diarium/internal/mail"
	"diarium/internal/model"
	"diarium/internal/repository"
	"diarium/internal/router"
	"diarium/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		slogger.Warn("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.Message{},
			&model.Entry{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				slogger.Warn("failed to drop table", "error", err)
			}
		}
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Entry{},
		&model.Message{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	mailer := mail.New(cfg, slogger)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	entryRepo := repository.NewEntryRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, mailer, cfg.BaseURL, slogger)
	userService := service.NewUserService(userRepo)
	entryService := service.NewEntryService(entryRepo, mailer, slogger)
	moderationService := service.NewModerationService(entryRepo, slogger)
	messageService := service.NewMessageService(messageRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	entryHandler := handler.NewEntryHandler(entryService)
	moderationHandler := handler.NewModerationHandler(moderationService)
	messageHandler := handler.NewMessageHandler(messageService)

	router.Register(
		e,
		cfg,
		jwtService,
		tokenStore,
		entryHandler,
		moderationHandler,
		authHandler,
		userHandler,
		messageHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
