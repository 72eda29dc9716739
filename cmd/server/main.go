package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skillswap/backend/internal/config"
	"github.com/skillswap/backend/internal/db"
	httpHandlers "github.com/skillswap/backend/internal/http/handlers"
	httpRouter "github.com/skillswap/backend/internal/http/router"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/repository"
	"github.com/skillswap/backend/internal/service"
	"github.com/skillswap/backend/internal/storage"
	"github.com/skillswap/backend/internal/ws"
)

func main() {
	// Контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Component("main")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("ошибка загрузки конфигурации")
	}

	logLevel := "info"
	if cfg.IsDevelopment() {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.IsDevelopment())

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("ошибка миграций")
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.WithError(err).Fatal("не удалось подготовить файловое хранилище")
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	cache := service.NewCacheService(ctx)
	authService := service.NewAuthService(userRepo, tokenManager)
	skillService := service.NewSkillService(skillRepo, cache, cfg.TutorCacheTTL)
	profileService := service.NewProfileService(userRepo, skillService)
	photoService := service.NewPhotoService(photoStorage, mediaRepo, userRepo, "/media")
	bookingService := service.NewBookingService(bookingRepo, userRepo, hub)
	messageService := service.NewMessageService(messageRepo, userRepo, hub)
	hub.SetChatReader(messageService)

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Auth:    httpHandlers.NewAuthHandler(authService),
		Profile: httpHandlers.NewProfileHandler(profileService),
		Skill:   httpHandlers.NewSkillHandler(skillService),
		Booking: httpHandlers.NewBookingHandler(bookingService),
		Message: httpHandlers.NewMessageHandler(messageService),
		Media:   httpHandlers.NewMediaHandler(photoService, cfg.MaxUploadSizeMB),
		WS:      httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health:  httpHandlers.NewHealthHandler(dbConn),
	}
	if cfg.IsDevelopment() {
		h.Seed = httpHandlers.NewSeedHandler(service.NewSeedService(authService, profileService), cfg.SeedFile)
	}

	engine := httpRouter.SetupRouter(cfg, h, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ошибка остановки http сервера")
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("сервер завершился с ошибкой")
	}
	log.Info("сервер остановлен")
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Component("main").WithError(err).Error("ошибка закрытия базы")
	}
}
