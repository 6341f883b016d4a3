package main

import (
	"context"
	"flag"
	"os"
	"time"

	"lms-platform/config"
	_ "lms-platform/docs"
	"lms-platform/internal/events"
	"lms-platform/internal/handler"
	"lms-platform/internal/repository"
	"lms-platform/internal/security"
	"lms-platform/internal/service"
	"lms-platform/internal/util"

	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

const expiredTokensCleanupInterval = time.Hour

// @title LMS Auth API
// @version 1.0
// @description Регистрация, вход, ротация refresh-токенов и выход

// @host localhost:8080
// @BasePath /api/auth

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка загрузки конфигурации")
	}
	logger := util.SetupLogger("auth", cfg.Logging.Level, cfg.Logging.Pretty)

	if err := config.Validate(cfg.DatabaseConfig, cfg.RedisConfig, cfg.JWT, cfg.Session, cfg.Kafka); err != nil {
		logger.Fatal().Err(err).Msg("некорректная конфигурация")
	}

	if err := run(ctx, cfg); err != nil {
		logger.Error().Err(err).Msg("сервис остановлен с ошибкой")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("ошибка при закрытии БД")
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("ошибка при закрытии Redis")
		}
	}()

	publisher := events.New(&cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("ошибка при закрытии kafka")
		}
	}()

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Session.Duration())

	authService := service.NewAuthenticationService(userRepo, refreshRepo, sessionRepo, jwtService, publisher)
	authHandler := handler.NewAuthenticationHandler(authService, cfg.Auth)

	srv, router := config.SetupServer(cfg.ServerAddr)
	handler.UseCommonMiddleware(router)
	router.NotFound(handler.NotFound)
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	handler.SetupAuthRoutes(router, authHandler)

	go purgeExpiredTokens(ctx, refreshRepo)

	return config.RunServer(ctx, srv)
}

// purgeExpiredTokens : удаляет строки refresh_tokens с истёкшим сроком
func purgeExpiredTokens(ctx context.Context, repo *repository.RefreshTokenRepository) {
	ticker := time.NewTicker(expiredTokensCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Warn().Err(err).Msg("не удалось удалить истёкшие refresh-токены")
				continue
			}
			if deleted > 0 {
				log.Info().Int64("deleted", deleted).Msg("удалены истёкшие refresh-токены")
			}
		}
	}
}
