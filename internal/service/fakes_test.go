package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/model"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	return m.Called(ctx, eventType, key, payload).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// ===== IN-MEMORY FAKES =====

// memoryUsers : пользователи с уникальным email, как в таблице users
type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]*model.User{}}
}

func (r *memoryUsers) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, apperr.Conflict("email already registered", nil)
	}
	created := *user
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.byEmail[user.Email] = &created
	return &created, nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found", nil)
}

// memoryRefreshStore : Rotate под мьютексом повторяет транзакцию DELETE+INSERT
type memoryRefreshStore struct {
	mu   sync.Mutex
	rows map[string]*model.RefreshToken
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{rows: map[string]*model.RefreshToken{}}
}

func (s *memoryRefreshStore) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *token
	s.rows[token.TokenHash] = &row
	return nil
}

func (s *memoryRefreshStore) FindByHash(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[tokenHash]
	if !ok {
		return nil, ports.ErrRefreshTokenRevoked
	}
	copied := *row
	return &copied, nil
}

func (s *memoryRefreshStore) DeleteByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, tokenHash)
	return nil
}

func (s *memoryRefreshStore) DeleteAllForUser(_ context.Context, userUUID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for hash, row := range s.rows {
		if row.UserUUID == userUUID {
			delete(s.rows, hash)
			n++
		}
	}
	return n, nil
}

func (s *memoryRefreshStore) Rotate(_ context.Context, oldTokenHash string, next *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[oldTokenHash]; !ok {
		return ports.ErrRefreshTokenRevoked
	}
	delete(s.rows, oldTokenHash)
	row := *next
	s.rows[next.TokenHash] = &row
	return nil
}

func (s *memoryRefreshStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for hash, row := range s.rows {
		if !before.Before(row.ExpiresAt) {
			delete(s.rows, hash)
			n++
		}
	}
	return n, nil
}

func (s *memoryRefreshStore) countFor(userUUID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.UserUUID == userUUID {
			n++
		}
	}
	return n
}

func (s *memoryRefreshStore) has(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[security.HashToken(token)]
	return ok
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	failWith error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]model.Session{}}
}

func (c *memorySessions) SetSession(_ context.Context, userUUID string, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.sessions[userUUID] = *session
	return nil
}

func (c *memorySessions) GetSession(_ context.Context, userUUID string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	session, ok := c.sessions[userUUID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (c *memorySessions) DeleteSession(_ context.Context, userUUID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	delete(c.sessions, userUUID)
	return nil
}

var errCacheDown = errors.New("redis: connection refused")

func newTokenService(t *testing.T) *security.TokenService {
	t.Helper()
	svc, err := security.NewJWTService(&config.JWTConfig{
		SecretKey:       strings.Repeat("s", 32),
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "168h",
	})
	require.NoError(t, err)
	return svc
}

// identityFor : Identity собирается только пакетом security, поэтому через его middleware
func identityFor(t *testing.T, userUUID string, role model.Role) security.Identity {
	t.Helper()
	var identity security.Identity
	handler := security.TrustedHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ = security.IdentityFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(security.HeaderUserID, userUUID)
	req.Header.Set(security.HeaderUserRole, string(role))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, userUUID, identity.UserUUID())
	return identity
}
