package main

import (
	"context"
	"flag"
	"os"

	"lms-platform/config"
	"lms-platform/internal/client"
	"lms-platform/internal/handler"
	"lms-platform/internal/repository"
	"lms-platform/internal/service"
	"lms-platform/internal/storage"
	"lms-platform/internal/util"

	"github.com/go-chi/chi/v5"
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
	logger := util.SetupLogger("media", cfg.Logging.Level, cfg.Logging.Pretty)

	if err := config.Validate(cfg.DatabaseConfig, cfg.Storage, cfg.CourseService); err != nil {
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

	objectStorage, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("provider", cfg.Storage.Provider).Msg("хранилище файлов готово")

	// подписанные ссылки локального провайдера обслуживает сам сервис
	var localRoutes interface{ Routes(chi.Router) }
	if local, ok := objectStorage.(*storage.LocalProvider); ok {
		localRoutes = local
	}

	mediaService := service.NewMediaService(
		repository.NewMediaRepository(db),
		objectStorage,
		client.NewCourseClient(cfg.CourseService),
		cfg.Storage.URLTTL(),
	)

	srv, router := config.SetupServer(cfg.ServerAddr)
	handler.UseCommonMiddleware(router)
	router.NotFound(handler.NotFound)
	handler.SetupMediaRoutes(router, handler.NewMediaHandler(mediaService), localRoutes)

	return config.RunServer(ctx, srv)
}
