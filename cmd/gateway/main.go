package main

import (
	"context"
	"flag"
	"os"
	"time"

	"lms-platform/config"
	"lms-platform/internal/gateway"
	"lms-platform/internal/security"
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
	logger := util.SetupLogger("gateway", cfg.Logging.Level, cfg.Logging.Pretty)

	if err := config.Validate(cfg.JWT, cfg.Gateway); err != nil {
		logger.Fatal().Err(err).Msg("некорректная конфигурация")
	}

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		logger.Fatal().Err(err).Msg("ошибка создания JWT сервиса")
	}

	gw, err := gateway.New(cfg.Gateway, jwtService)
	if err != nil {
		logger.Fatal().Err(err).Msg("ошибка настройки маршрутов шлюза")
	}

	srv, router := config.SetupServer(cfg.ServerAddr)
	gw.Routes(router)

	go gw.RunCleanup(ctx, time.Minute)

	if err := config.RunServer(ctx, srv); err != nil {
		logger.Error().Err(err).Msg("сервис остановлен с ошибкой")
		os.Exit(1)
	}
}
