package security

import (
	"net/http"
	"time"

	"lms-platform/internal/model"
)

// SetAuthCookies : http-only, SameSite=Lax cookies с max-age по сроку жизни токенов
func SetAuthCookies(w http.ResponseWriter, pair *model.TokensPair, secure bool) {
	now := time.Now()
	http.SetCookie(w, authCookie(AccessCookieName, pair.AccessToken, maxAge(pair.AccessExpiresAt, now), secure))
	http.SetCookie(w, authCookie(RefreshCookieName, pair.RefreshToken, maxAge(pair.RefreshExpiresAt, now), secure))
}

func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, authCookie(AccessCookieName, "", -1, secure))
	http.SetCookie(w, authCookie(RefreshCookieName, "", -1, secure))
}

func authCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func maxAge(expiresAt, now time.Time) int {
	seconds := int(expiresAt.Sub(now).Round(time.Second).Seconds())
	if seconds <= 0 {
		return -1
	}
	return seconds
}
