package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServerAddr     string              `yaml:"serverAddr"`
	DatabaseConfig DatabaseConfig      `yaml:"databaseConfig"`
	RedisConfig    RedisConfig         `yaml:"redisConfig"`
	S3Config       S3Config            `yaml:"s3Config"`
	JWT            JWTConfig           `yaml:"jwt"`
	Session        SessionConfig       `yaml:"session"`
	Storage        StorageConfig       `yaml:"storage"`
	Kafka          KafkaConfig         `yaml:"kafka"`
	Gateway        GatewayConfig       `yaml:"gateway"`
	CourseService  CourseServiceConfig `yaml:"courseService"`
	Auth           AuthConfig          `yaml:"auth"`
	Logging        LoggingConfig       `yaml:"logging"`
}

// Validator : секция конфигурации, которую нужно проверить при старте
type Validator interface {
	Validate() error
}

// LoadConfig : читает yaml-файл, подставляя ${VAR} из окружения.
// Значения по умолчанию применяются до разбора, поэтому yaml их перекрывает.
func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(file))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Defaults : значения, совпадающие с политикой токенов и сессий
func Defaults() *AppConfig {
	return &AppConfig{
		ServerAddr: ":8080",
		JWT: JWTConfig{
			AccessTokenTTL:  "15m",
			RefreshTokenTTL: "168h",
		},
		Session: SessionConfig{TTL: "168h"},
		Storage: StorageConfig{
			Provider:     "s3",
			UploadURLTTL: "15m",
		},
		Kafka:   KafkaConfig{Topic: "lms.auth.events"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate : проверяет все переданные секции сразу и возвращает все ошибки
func Validate(sections ...Validator) error {
	var errs []error
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetupServer : без middleware.RealIP, r.RemoteAddr всегда адрес TCP-пира.
// Шлюз стоит на границе, X-Real-IP и X-Forwarded-For присылает клиент.
func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}

// RunServer : запускает сервер и ждёт SIGINT/SIGTERM, после чего
// даёт активным запросам 5 секунд на завершение
func RunServer(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("сервер запущен")
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChannel)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка работы сервера: %w", err)
		}
		return nil
	case sig := <-signalChannel:
		log.Info().Str("signal", sig.String()).Msg("получен сигнал остановки работы сервера")
	case <-ctx.Done():
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		return fmt.Errorf("ошибка при остановке сервера: %w", err)
	}
	log.Info().Msg("сервер успешно остановлен")
	return nil
}
