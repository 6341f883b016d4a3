package ports

import (
	"context"

	"lms-platform/internal/model"
	"lms-platform/internal/security"
)

// CourseRepository : SQL слой курсов
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByUUID(ctx context.Context, uuid string) (*model.Course, error)
	List(ctx context.Context, cursor string, limit int) ([]*model.Course, string, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, uuid string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type CourseService interface {
	CreateCourse(ctx context.Context, identity security.Identity, title, description string) (*model.Course, error)
	GetCourse(ctx context.Context, uuid string) (*model.Course, error)
	ListCourses(ctx context.Context, cursor string, limit int) ([]*model.Course, string, error)
	UpdateCourse(ctx context.Context, identity security.Identity, uuid string, title, description *string) (*model.Course, error)
	DeleteCourse(ctx context.Context, identity security.Identity, uuid string) error
}
