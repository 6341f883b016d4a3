package repository

import (
	"context"
	"fmt"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/util"

	"github.com/jmoiron/sqlx"
)

type CourseRepository struct {
	*config.Database
}

func NewCourseRepository(database *config.Database) *CourseRepository {
	return &CourseRepository{database}
}

const courseColumns = `uuid, slug, title, description, instructor_uuid, created_at, updated_at`

// Create : сохраняем новый курс, created_at/updated_at выставляет база
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (uuid, slug, title, description, instructor_uuid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRowxContext(ctx, query,
		course.UUID, course.Slug, course.Title, course.Description, course.InstructorUUID,
	).Scan(&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return apperr.FromDB("course slug already taken", err)
	}
	return nil
}

func (r *CourseRepository) GetByUUID(ctx context.Context, uuid string) (*model.Course, error) {
	var course model.Course
	err := sqlx.GetContext(ctx, r.DB, &course, `SELECT `+courseColumns+` FROM courses WHERE uuid = $1`, uuid)
	if err != nil {
		return nil, apperr.FromDB("course not found", err)
	}
	return &course, nil
}

// List : cursor-based пагинация по created_at.
// cursor : created_at последнего курса предыдущей страницы в RFC3339Nano
func (r *CourseRepository) List(ctx context.Context, cursor string, limit int) ([]*model.Course, string, error) {
	query := `SELECT ` + courseColumns + `
		FROM courses
		WHERE created_at > $1
		ORDER BY created_at ASC, uuid ASC
		LIMIT $2
	`

	var cursorTime time.Time
	if cursor != "" {
		parsed, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, "", apperr.Validation("invalid cursor", map[string]string{"cursor": fmt.Sprintf("expected RFC3339 timestamp: %v", err)})
		}
		cursorTime = parsed
	}

	var courses []*model.Course
	// +1 для проверки наличия следующей страницы
	if err := sqlx.SelectContext(ctx, r.DB, &courses, query, cursorTime, limit+1); err != nil {
		return nil, "", util.LogError("[CourseRepo] не удалось получить список курсов", err)
	}

	var nextCursor string
	if len(courses) > limit {
		courses = courses[:limit]
		nextCursor = courses[len(courses)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	return courses, nextCursor, nil
}

// Update : меняет title и description, updated_at обновляется в запросе
func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, updated_at = NOW()
		WHERE uuid = $1
		RETURNING updated_at
	`
	err := r.DB.QueryRowxContext(ctx, query, course.UUID, course.Title, course.Description).Scan(&course.UpdatedAt)
	if err != nil {
		return apperr.FromDB("course not found", err)
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, uuid string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM courses WHERE uuid = $1`, uuid)
	if err != nil {
		return util.LogError("[CourseRepo] не удалось удалить курс", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("course not found", nil)
	}
	return nil
}

// SlugExists : проверяет, занят ли slug
func (r *CourseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.DB, &exists, `SELECT EXISTS (SELECT 1 FROM courses WHERE slug = $1)`, slug)
	if err != nil {
		return false, util.LogError("[CourseRepo] ошибка проверки slug", err)
	}
	return exists, nil
}
