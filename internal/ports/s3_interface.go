package ports

import (
	"context"
	"time"

	"lms-platform/internal/model"
	"lms-platform/internal/security"
)

// ObjectStorage : провайдер хранилища файлов, выбирается один раз при старте
type ObjectStorage interface {
	GeneratePresignedPutURL(ctx context.Context, key, contentType string, expire time.Duration) (string, error)
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// MediaRepository : SQL слой медиафайлов
type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	GetByUUID(ctx context.Context, uuid string) (*model.Media, error)
	Delete(ctx context.Context, uuid string) error
}

// CourseDirectory : курсы глазами media-сервиса, владелец проверяется перед привязкой файла
type CourseDirectory interface {
	GetCourse(ctx context.Context, identity security.Identity, courseUUID string) (*model.Course, error)
}

type MediaService interface {
	CreateUploadURL(ctx context.Context, identity security.Identity, filename, contentType, courseUUID string) (*model.UploadTicket, error)
	GetMedia(ctx context.Context, identity security.Identity, uuid string) (*model.Media, string, error)
	DeleteMedia(ctx context.Context, identity security.Identity, uuid string) error
}
