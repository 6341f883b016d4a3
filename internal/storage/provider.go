// Package storage : провайдеры хранилища файлов. Провайдер выбирается
// один раз при старте media-сервиса по storage.provider.
package storage

import (
	"context"
	"fmt"

	"lms-platform/config"
	"lms-platform/internal/ports"
)

const (
	ProviderS3    = "s3"
	ProviderLocal = "local"
)

func New(ctx context.Context, cfg *config.AppConfig) (ports.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case ProviderS3:
		provider, err := NewS3Provider(ctx, &cfg.S3Config)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case ProviderLocal:
		provider, err := NewLocalProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
