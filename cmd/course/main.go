package main

import (
	"context"
	"flag"
	"os"

	"lms-platform/config"
	"lms-platform/internal/handler"
	"lms-platform/internal/repository"
	"lms-platform/internal/service"
	"lms-platform/internal/util"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка загрузки конфигурации")
	}
	logger := util.SetupLogger("course", cfg.Logging.Level, cfg.Logging.Pretty)

	if err := config.Validate(cfg.DatabaseConfig); err != nil {
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

	courseService := service.NewCourseService(repository.NewCourseRepository(db))

	srv, router := config.SetupServer(cfg.ServerAddr)
	handler.UseCommonMiddleware(router)
	router.NotFound(handler.NotFound)
	handler.SetupCourseRoutes(router, handler.NewCourseHandler(courseService))

	return config.RunServer(ctx, srv)
}
