package service

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"
	"lms-platform/internal/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type MediaService struct {
	mediaRepository ports.MediaRepository
	storage         ports.ObjectStorage
	courses         ports.CourseDirectory
	ttl             time.Duration
	now             func() time.Time
}

func NewMediaService(mediaRepository ports.MediaRepository, storage ports.ObjectStorage, courses ports.CourseDirectory, ttl time.Duration) *MediaService {
	return &MediaService{
		mediaRepository: mediaRepository,
		storage:         storage,
		courses:         courses,
		ttl:             ttl,
		now:             time.Now,
	}
}

// CreateUploadURL : записывает метаданные и возвращает pre-signed PUT URL.
// Материалы курса может загружать только автор курса или administrator.
func (s *MediaService) CreateUploadURL(ctx context.Context, identity security.Identity, filename, contentType, courseUUID string) (*model.UploadTicket, error) {
	var course *string
	if courseUUID != "" {
		if err := s.checkCourseOwner(ctx, identity, courseUUID); err != nil {
			return nil, err
		}
		course = &courseUUID
	}

	mediaUUID := uuid.NewString()
	media := &model.Media{
		UUID:        mediaUUID,
		OwnerUUID:   identity.UserUUID(),
		CourseUUID:  course,
		Filename:    filename,
		ContentType: contentType,
		StorageKey:  path.Join("media", identity.UserUUID(), mediaUUID, sanitizeFilename(filename)),
	}

	putURL, err := s.storage.GeneratePresignedPutURL(ctx, media.StorageKey, contentType, s.ttl)
	if err != nil {
		return nil, util.LogError("[MediaService] не удалось сгенерировать URL", err)
	}

	if err := s.mediaRepository.Create(ctx, media); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("media_id", media.UUID).Str("owner", media.OwnerUUID).Msg("[MediaService] выдан URL загрузки")
	return &model.UploadTicket{
		Media:     media,
		UploadURL: putURL,
		Method:    http.MethodPut,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}, nil
}

// GetMedia : метаданные и pre-signed GET URL. Материалы курса видны всем
// аутентифицированным пользователям, личные файлы только владельцу и администратору.
func (s *MediaService) GetMedia(ctx context.Context, identity security.Identity, uuid string) (*model.Media, string, error) {
	media, err := s.mediaRepository.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, "", err
	}
	if media.CourseUUID == nil && !identity.CanModify(media.OwnerUUID) {
		return nil, "", apperr.NotFound("media not found", nil)
	}

	getURL, err := s.storage.GeneratePresignedGetURL(ctx, media.StorageKey, s.ttl)
	if err != nil {
		return nil, "", util.LogError("[MediaService] не удалось сгенерировать pre-signed GET URL", err)
	}
	return media, getURL, nil
}

// DeleteMedia : удаляет объект в хранилище, затем метаданные. Доступно владельцу и администратору.
func (s *MediaService) DeleteMedia(ctx context.Context, identity security.Identity, uuid string) error {
	media, err := s.mediaRepository.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if !identity.CanModify(media.OwnerUUID) {
		// чужой личный файл не должен выдавать своё существование
		if media.CourseUUID == nil {
			return apperr.NotFound("media not found", nil)
		}
		return apperr.Authorization("only the owner can delete media")
	}

	if err := s.storage.DeleteObject(ctx, media.StorageKey); err != nil {
		return util.LogError("[MediaService] не удалось удалить объект", err)
	}
	if err := s.mediaRepository.Delete(ctx, uuid); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("media_id", uuid).Str("by", identity.UserUUID()).Msg("[MediaService] медиафайл удалён")
	return nil
}

// checkCourseOwner : курс существует и принадлежит вызывающему, администратору можно всё
func (s *MediaService) checkCourseOwner(ctx context.Context, identity security.Identity, courseUUID string) error {
	if !identity.HasRole(model.RoleInstructor, model.RoleAdministrator) {
		return apperr.Authorization("only instructors can attach media to courses")
	}
	course, err := s.courses.GetCourse(ctx, identity, courseUUID)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Validation("validation failed", map[string]string{"course_id": "course not found"})
	}
	if err != nil {
		return err
	}
	if !identity.CanModify(course.InstructorUUID) {
		return apperr.Authorization("only the course owner can attach media")
	}
	return nil
}

// sanitizeFilename : только [A-Za-z0-9._-], без каталогов
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		return "file"
	}
	return clean
}
