package security_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms-platform/internal/model"
	"lms-platform/internal/model/requestresponse"
	"lms-platform/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityEcho : отдаёт в ответ идентичность из контекста
func identityEcho(w http.ResponseWriter, r *http.Request) {
	identity, ok := security.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-Seen-User", identity.UserUUID())
	w.Header().Set("X-Seen-Role", string(identity.Role()))
	w.WriteHeader(http.StatusOK)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) requestresponse.ErrorResponse {
	t.Helper()
	var body requestresponse.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestTrustedHeaders(t *testing.T) {
	handler := security.TrustedHeaders(http.HandlerFunc(identityEcho))

	tests := []struct {
		name       string
		userID     string
		role       string
		authHeader string
		wantStatus int
	}{
		{name: "headers present", userID: "u-1", role: "instructor", wantStatus: http.StatusOK},
		{name: "no headers", wantStatus: http.StatusUnauthorized},
		{name: "no headers but bearer token is not a fallback", authHeader: "Bearer whatever", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", userID: "u-1", role: "root", wantStatus: http.StatusUnauthorized},
		{name: "missing role", userID: "u-1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/courses", nil)
			if tt.userID != "" {
				req.Header.Set(security.HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(security.HeaderUserRole, tt.role)
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.userID, rec.Header().Get("X-Seen-User"))
				assert.Equal(t, tt.role, rec.Header().Get("X-Seen-Role"))
			} else {
				body := decodeEnvelope(t, rec)
				assert.False(t, body.Success)
				assert.Equal(t, "UNAUTHORIZED", body.Code)
			}
		})
	}
}

func TestJWTMiddleware(t *testing.T) {
	svc := newTokenService(t)
	handler := security.JWTMiddleware(svc)(http.HandlerFunc(identityEcho))

	pair, err := svc.GenerateAccessRefreshTokens(alice)
	require.NoError(t, err)
	expired, _, err := svc.Issue(alice, security.AccessToken, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "valid bearer",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.AccessToken) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid cookie",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: security.AccessCookieName, Value: pair.AccessToken}) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not bearer scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "refresh token used as access",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.RefreshToken) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, alice.UserUUID, rec.Header().Get("X-Seen-User"))
				assert.Equal(t, string(model.RoleLearner), rec.Header().Get("X-Seen-Role"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := security.TrustedHeaders(security.RequireRole(model.RoleInstructor, model.RoleAdministrator)(http.HandlerFunc(identityEcho)))

	for role, want := range map[string]int{
		"learner":       http.StatusForbidden,
		"instructor":    http.StatusOK,
		"administrator": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodPost, "/courses", nil)
		req.Header.Set(security.HeaderUserID, "u-1")
		req.Header.Set(security.HeaderUserRole, role)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestInjectIdentityHeaders_OverwritesClientValues(t *testing.T) {
	svc := newTokenService(t)
	pair, err := svc.GenerateAccessRefreshTokens(alice)
	require.NoError(t, err)

	var forwarded http.Header
	handler := security.JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := security.IdentityFromContext(r.Context())
		require.True(t, ok)
		security.InjectIdentityHeaders(r.Header, identity)
		forwarded = r.Header.Clone()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Add(security.HeaderUserID, "someone-else")
	req.Header.Add(security.HeaderUserID, "and-another")
	req.Header.Set(security.HeaderUserRole, "administrator")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{alice.UserUUID}, forwarded.Values(security.HeaderUserID))
	assert.Equal(t, []string{"learner"}, forwarded.Values(security.HeaderUserRole))
}

func TestSetAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	now := time.Now()
	security.SetAuthCookies(rec, &model.TokensPair{
		AccessToken:      "a",
		RefreshToken:     "r",
		AccessExpiresAt:  now.Add(15 * time.Minute),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName[security.AccessCookieName]
	assert.Equal(t, 900, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, 604800, byName[security.RefreshCookieName].MaxAge)

	cleared := httptest.NewRecorder()
	security.ClearAuthCookies(cleared, false)
	for _, c := range cleared.Result().Cookies() {
		assert.Equal(t, "", c.Value)
		assert.True(t, c.MaxAge < 0)
	}
}
