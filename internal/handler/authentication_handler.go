package handler

import (
	"net/http"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model/requestresponse"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"
	"lms-platform/internal/util"
)

type AuthenticationHandler struct {
	authenticationService ports.AuthenticationService
	cookies               config.AuthConfig
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService, cookies config.AuthConfig) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService: authenticationService,
		cookies:               cookies,
	}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и выдаёт пару токенов. Роль administrator при самостоятельной регистрации понижается до learner.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.AuthResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Ошибка валидации, data содержит сообщения по полям"
// @Failure 409 {object} requestresponse.ErrorResponse "Email уже зарегистрирован"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleError(w, r, err)
		return
	}

	user, tokens, err := h.authenticationService.Register(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	if h.cookies.SetCookies {
		security.SetAuthCookies(w, tokens, h.cookies.CookieSecure)
	}
	util.WriteJSON(w, r, http.StatusCreated, "CREATED", "user registered", requestresponse.AuthData{
		User:   requestresponse.UserViewFromModel(user),
		Tokens: *tokens,
	})
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение пары токенов по email и паролю. Неизвестный email и неверный пароль дают одинаковый ответ.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.AuthResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse "invalid credentials"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleError(w, r, err)
		return
	}

	user, tokens, err := h.authenticationService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	if h.cookies.SetCookies {
		security.SetAuthCookies(w, tokens, h.cookies.CookieSecure)
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "login successful", requestresponse.AuthData{
		User:   requestresponse.UserViewFromModel(user),
		Tokens: *tokens,
	})
}

// RefreshToken godoc
// @Summary Обновление токенов
// @Description Ротация refresh-токена: старый токен отзывается, выдаётся новая пара. Токен берётся из тела или из cookie refreshToken.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest false "Тело запроса"
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Токен невалиден, истёк или отозван"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RefreshTokenRequest
	if err := util.DecodeOptionalJSON(r, &req); err != nil {
		util.HandleError(w, r, err)
		return
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := r.Cookie(security.RefreshCookieName); err == nil {
			refreshToken = cookie.Value
		}
	}
	if refreshToken == "" {
		util.HandleError(w, r, apperr.Validation("validation failed", map[string]string{"refreshToken": "is required"}))
		return
	}

	tokens, err := h.authenticationService.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	if h.cookies.SetCookies {
		security.SetAuthCookies(w, tokens, h.cookies.CookieSecure)
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "tokens refreshed", tokens)
}

// Logout godoc
// @Summary Завершение всех сессий пользователя
// @Description Проверяет access-токен и отзывает все refresh-токены пользователя.
// @Tags Authentication
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} requestresponse.Envelope
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken, err := security.BearerToken(r)
	if err != nil {
		util.HandleError(w, r, apperr.Authentication("authentication required", err))
		return
	}

	if err := h.authenticationService.Logout(r.Context(), accessToken); err != nil {
		util.HandleError(w, r, err)
		return
	}

	if h.cookies.SetCookies {
		security.ClearAuthCookies(w, h.cookies.CookieSecure)
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "logged out", nil)
}

// Session godoc
// @Summary Текущая сессия
// @Description Запись кэша сессии пользователя из заголовков шлюза.
// @Tags Authentication
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} requestresponse.SessionResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Сессия истекла или удалена"
// @Router /session [get]
func (h *AuthenticationHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := security.IdentityFromContext(r.Context())
	if !ok {
		util.HandleError(w, r, apperr.Authentication("authentication required", nil))
		return
	}

	session, err := h.authenticationService.Session(r.Context(), identity.UserUUID())
	if err != nil {
		util.HandleError(w, r, err)
		return
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "", session)
}
