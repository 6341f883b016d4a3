package handler

import (
	"net/http"

	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/security"
	"lms-platform/internal/util"

	"github.com/go-chi/chi/v5"
)

// Общие middleware сервисов за шлюзом: trace id из заголовка и access-лог
func UseCommonMiddleware(r chi.Router) {
	r.Use(util.TraceMiddleware)
	r.Use(util.AccessLog)
}

// SetupAuthRoutes : logout проверяет access-токен сам, /session доверяет заголовкам шлюза
func SetupAuthRoutes(r chi.Router, h *AuthenticationHandler) {
	r.Get("/health", Health("auth"))
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.RefreshToken)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(security.TrustedHeaders)
		r.Get("/session", h.Session)
	})
}

func SetupCourseRoutes(r chi.Router, h *CourseHandler) {
	r.Get("/health", Health("course"))

	r.Route("/courses", func(r chi.Router) {
		r.Use(security.TrustedHeaders)
		r.Get("/", h.ListCourses)
		r.Get("/{id}", h.GetCourse)
		r.With(security.RequireRole(model.RoleInstructor, model.RoleAdministrator)).Post("/", h.CreateCourse)
		r.Put("/{id}", h.UpdateCourse)
		r.Delete("/{id}", h.DeleteCourse)
	})
}

// SetupMediaRoutes : подписанные ссылки локального хранилища доступны без заголовков шлюза.
// local равен nil, если выбран провайдер s3.
func SetupMediaRoutes(r chi.Router, h *MediaHandler, local interface{ Routes(chi.Router) }) {
	r.Get("/health", Health("media"))

	r.Group(func(r chi.Router) {
		r.Use(security.TrustedHeaders)
		r.Post("/media/upload-url", h.CreateUploadURL)
		r.Get("/media/{id}", h.GetMedia)
		r.Delete("/media/{id}", h.DeleteMedia)
	})

	if local != nil {
		local.Routes(r)
	}
}

// NotFound : 404 в общем конверте
func NotFound(w http.ResponseWriter, r *http.Request) {
	util.HandleError(w, r, apperr.NotFound("route not found", nil))
}
