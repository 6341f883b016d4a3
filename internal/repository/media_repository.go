package repository

import (
	"context"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/util"

	"github.com/jmoiron/sqlx"
)

type MediaRepository struct {
	*config.Database
}

func NewMediaRepository(database *config.Database) *MediaRepository {
	return &MediaRepository{database}
}

// Create : запись создаётся до загрузки файла, по ней выдаётся presigned URL
func (r *MediaRepository) Create(ctx context.Context, media *model.Media) error {
	query := `
		INSERT INTO media (uuid, owner_uuid, course_uuid, filename, content_type, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.DB.QueryRowxContext(ctx, query,
		media.UUID, media.OwnerUUID, media.CourseUUID, media.Filename, media.ContentType, media.StorageKey,
	).Scan(&media.CreatedAt)
	if err != nil {
		return apperr.FromDB("media already exists", err)
	}
	return nil
}

func (r *MediaRepository) GetByUUID(ctx context.Context, uuid string) (*model.Media, error) {
	query := `
		SELECT uuid, owner_uuid, course_uuid, filename, content_type, storage_key, created_at
		FROM media
		WHERE uuid = $1
	`
	var media model.Media
	if err := sqlx.GetContext(ctx, r.DB, &media, query, uuid); err != nil {
		return nil, apperr.FromDB("media not found", err)
	}
	return &media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, uuid string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM media WHERE uuid = $1`, uuid)
	if err != nil {
		return util.LogError("[MediaRepo] не удалось удалить медиафайл", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("media not found", nil)
	}
	return nil
}
