package handler

import (
	"net/http"
	"strconv"

	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/model/requestresponse"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"
	"lms-platform/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courseService ports.CourseService
}

func NewCourseHandler(courseService ports.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CourseList : страница курсов и курсор следующей
type CourseList struct {
	Courses    []*model.Course `json:"courses"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// ListCourses : GET /courses?cursor=&limit=
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			util.HandleError(w, r, apperr.Validation("validation failed", map[string]string{"limit": "must be an integer"}))
			return
		}
		limit = parsed
	}

	courses, next, err := h.courseService.ListCourses(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}
	if courses == nil {
		courses = []*model.Course{}
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "", CourseList{Courses: courses, NextCursor: next})
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseUUID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseUUID)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "", course)
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := security.IdentityFromContext(r.Context())

	var req requestresponse.CreateCourseRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleError(w, r, err)
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), identity, req.Title, req.Description)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}
	util.WriteJSON(w, r, http.StatusCreated, "CREATED", "course created", course)
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := security.IdentityFromContext(r.Context())
	courseUUID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req requestresponse.UpdateCourseRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleError(w, r, err)
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), identity, courseUUID, req.Title, req.Description)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "course updated", course)
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := security.IdentityFromContext(r.Context())
	courseUUID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), identity, courseUUID); err != nil {
		util.HandleError(w, r, err)
		return
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "course deleted", nil)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		util.HandleError(w, r, apperr.Validation("validation failed", map[string]string{"id": "must be a valid uuid"}))
		return "", false
	}
	return id, true
}
