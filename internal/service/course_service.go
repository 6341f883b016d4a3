package service

import (
	"context"
	"strings"
	"unicode"

	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	maxSlugLength   = 80
)

type CourseService struct {
	courseRepository ports.CourseRepository
}

func NewCourseService(courseRepository ports.CourseRepository) *CourseService {
	return &CourseService{courseRepository: courseRepository}
}

// CreateCourse : создать курс может instructor или administrator, он же становится владельцем
func (s *CourseService) CreateCourse(ctx context.Context, identity security.Identity, title, description string) (*model.Course, error) {
	if !identity.HasRole(model.RoleInstructor, model.RoleAdministrator) {
		return nil, apperr.Authorization("only instructors can create courses")
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		UUID:           uuid.NewString(),
		Slug:           slug,
		Title:          strings.TrimSpace(title),
		Description:    description,
		InstructorUUID: identity.UserUUID(),
	}
	if err := s.courseRepository.Create(ctx, course); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("course_id", course.UUID).Str("slug", course.Slug).Msg("[CourseService] курс создан")
	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, uuid string) (*model.Course, error) {
	return s.courseRepository.GetByUUID(ctx, uuid)
}

// ListCourses : limit вне диапазона заменяется значением по умолчанию
func (s *CourseService) ListCourses(ctx context.Context, cursor string, limit int) ([]*model.Course, string, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return s.courseRepository.List(ctx, cursor, limit)
}

// UpdateCourse : владелец или администратор; nil поля не меняются
func (s *CourseService) UpdateCourse(ctx context.Context, identity security.Identity, uuid string, title, description *string) (*model.Course, error) {
	course, err := s.courseRepository.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if !identity.CanModify(course.InstructorUUID) {
		return nil, apperr.Authorization("only the course owner can modify it")
	}

	if title != nil {
		course.Title = strings.TrimSpace(*title)
	}
	if description != nil {
		course.Description = *description
	}

	if err := s.courseRepository.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, identity security.Identity, uuid string) error {
	course, err := s.courseRepository.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if !identity.CanModify(course.InstructorUUID) {
		return apperr.Authorization("only the course owner can delete it")
	}

	if err := s.courseRepository.Delete(ctx, uuid); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("course_id", uuid).Str("by", identity.UserUUID()).Msg("[CourseService] курс удалён")
	return nil
}

// uniqueSlug : при занятом slug добавляется короткий случайный суффикс.
// Гонку двух одинаковых заголовков ловит уникальный индекс courses_slug_key.
func (s *CourseService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	exists, err := s.courseRepository.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}

// Slugify : "Intro to Go!" -> "intro-to-go"
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "course"
	}
	return slug
}
