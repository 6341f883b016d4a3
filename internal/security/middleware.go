package security

import (
	"errors"
	"net/http"
	"strings"

	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/util"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	errMalformedHeader = errors.New("malformed authorization header")
)

// BearerToken : токен из заголовка Authorization, иначе из cookie accessToken.
// Отсутствие токена (ErrMissingToken) отличается от кривого заголовка.
func BearerToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", errMalformedHeader
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return "", errMalformedHeader
		}
		return token, nil
	}

	if cookie, err := r.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrMissingToken
}

// StripIdentityHeaders : удаляет присланные клиентом заголовки идентичности
func StripIdentityHeaders(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserRole)
}

// InjectIdentityHeaders : перезаписывает заголовки значениями проверенной идентичности
func InjectIdentityHeaders(h http.Header, identity Identity) {
	StripIdentityHeaders(h)
	h.Set(HeaderUserID, identity.userUUID)
	h.Set(HeaderUserRole, string(identity.role))
}

// JWTMiddleware : проверяет access-токен и кладёт Identity в контекст.
// Используется только на границе доверия (шлюз).
func JWTMiddleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := util.Logger(r.Context())

			token, err := BearerToken(r)
			if err != nil {
				reason := "malformed authorization header"
				if errors.Is(err, ErrMissingToken) {
					reason = "missing token"
				}
				logger.Info().Str("reason", reason).Str("path", r.URL.Path).Msg("request rejected")
				util.HandleError(w, r, apperr.Authentication("authentication required", err))
				return
			}

			claims, err := tokens.ValidateJWT(token, AccessToken)
			if err != nil {
				logger.Info().Str("reason", "invalid token").Err(err).Str("path", r.URL.Path).Msg("request rejected")
				util.HandleError(w, r, apperr.Authentication("invalid or expired token", err))
				return
			}

			identity := Identity{userUUID: claims.UserUUID, role: claims.Role}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// TrustedHeaders : для сервисов за шлюзом. Идентичность берётся из заголовков
// без проверки токена; без заголовков запрос отклоняется, к токену не откатываемся.
func TrustedHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userUUID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userUUID == "" {
			util.HandleError(w, r, apperr.Authentication("authentication required", nil))
			return
		}

		role, err := model.ParseRole(r.Header.Get(HeaderUserRole))
		if err != nil {
			util.HandleError(w, r, apperr.Authentication("authentication required", err))
			return
		}

		identity := Identity{userUUID: userUUID, role: role}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// RequireRole : 403, если роль не входит в список
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				util.HandleError(w, r, apperr.Authentication("authentication required", nil))
				return
			}
			if !identity.HasRole(roles...) {
				util.HandleError(w, r, apperr.Authorization("insufficient privileges"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
