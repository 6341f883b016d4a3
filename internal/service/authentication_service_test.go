package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lms-platform/internal/apperr"
	"lms-platform/internal/events"
	"lms-platform/internal/model"
	"lms-platform/internal/security"
	"lms-platform/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc       *service.AuthenticationService
	tokens    *security.TokenService
	users     *memoryUsers
	store     *memoryRefreshStore
	sessions  *memorySessions
	publisher *MockPublisher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		tokens:    newTokenService(t),
		users:     newMemoryUsers(),
		store:     newMemoryRefreshStore(),
		sessions:  newMemorySessions(),
		publisher: &MockPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = service.NewAuthenticationService(f.users, f.store, f.sessions, f.tokens, f.publisher)
	return f
}

func (f *authFixture) register(t *testing.T, email, password string) (*model.User, *model.TokensPair) {
	t.Helper()
	user, tokens, err := f.svc.Register(context.Background(), email, password, "Alice", "")
	require.NoError(t, err)
	return user, tokens
}

func TestRegister_DefaultsAndDowngrade(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for requested, want := range map[string]model.Role{
		"":              model.RoleLearner,
		"administrator": model.RoleLearner,
		"instructor":    model.RoleInstructor,
	} {
		email := "user-" + requested + "@example.com"
		user, tokens, err := f.svc.Register(ctx, email, "Password123", "Alice", requested)
		require.NoError(t, err, requested)

		assert.Equal(t, want, user.Role, requested)
		assert.NotEqual(t, "Password123", user.PasswordHash)
		assert.True(t, security.CheckPassword("Password123", user.PasswordHash))

		claims, err := f.tokens.ValidateJWT(tokens.AccessToken, security.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, want, claims.Role)

		assert.True(t, f.store.has(tokens.RefreshToken), "refresh token row persisted")
		session, err := f.sessions.GetSession(ctx, user.UUID)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, email, session.Email)
	}

	f.publisher.AssertCalled(t, "Publish", mock.Anything, events.UserRegistered, mock.Anything, mock.Anything)
}

func TestRegister_RefreshExpiryMatchesPolicy(t *testing.T) {
	f := newAuthFixture(t)
	user, _ := f.register(t, "alice@example.com", "Password123")

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, row := range f.store.rows {
		assert.Equal(t, user.UUID, row.UserUUID)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), row.ExpiresAt, 5*time.Second)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "Password123")

	_, _, err := f.svc.Register(context.Background(), "alice@example.com", "Other12345", "Alice Two", "")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRegister_EmailIsCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)
	user, _ := f.register(t, "  Alice@Example.COM ", "Password123")
	assert.Equal(t, "alice@example.com", user.Email)

	_, _, err := f.svc.Register(context.Background(), "alice@example.com", "Other12345", "Alice Two", "")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	loggedIn, _, err := f.svc.Login(context.Background(), "ALICE@example.com", "Password123")
	require.NoError(t, err)
	assert.Equal(t, user.UUID, loggedIn.UUID)
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	users := &MockUserRepository{}
	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, apperr.NotFound("user not found", nil))
	users.On("CreateUser", mock.Anything, mock.Anything).Return(nil, apperr.Conflict("email already registered", nil))

	svc := service.NewAuthenticationService(users, newMemoryRefreshStore(), newMemorySessions(), newTokenService(t), &MockPublisher{})

	_, _, err := svc.Register(context.Background(), "alice@example.com", "Password123", "Alice", "")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	users.AssertExpectations(t)
}

func TestRegister_StorageFailureIsInternal(t *testing.T) {
	users := &MockUserRepository{}
	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, apperr.Internal("user not found", errors.New("connection refused")))

	svc := service.NewAuthenticationService(users, newMemoryRefreshStore(), newMemorySessions(), newTokenService(t), &MockPublisher{})

	_, _, err := svc.Register(context.Background(), "alice@example.com", "Password123", "Alice", "")
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	registered, _ := f.register(t, "alice@example.com", "Password123")

	user, tokens, err := f.svc.Login(context.Background(), "alice@example.com", "Password123")
	require.NoError(t, err)
	assert.Equal(t, registered.UUID, user.UUID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// сессии других устройств не отзываются
	assert.Equal(t, 2, f.store.countFor(user.UUID))
}

func TestLogin_CredentialEnumerationResistance(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "Password123")

	_, _, unknownEmail := f.svc.Login(context.Background(), "nobody@example.com", "Password123")
	_, _, wrongPassword := f.svc.Login(context.Background(), "alice@example.com", "WrongPassword")

	require.Error(t, unknownEmail)
	require.Error(t, wrongPassword)
	assert.Equal(t, unknownEmail.Error(), wrongPassword.Error())
	assert.Equal(t, apperr.As(unknownEmail).Status(), apperr.As(wrongPassword).Status())
	assert.Equal(t, apperr.As(unknownEmail).PublicMessage(), apperr.As(wrongPassword).PublicMessage())
}

func TestLogin_SessionCacheFailureIsNotFatal(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "Password123")
	f.sessions.failWith = errCacheDown

	_, tokens, err := f.svc.Login(context.Background(), "alice@example.com", "Password123")
	require.NoError(t, err)
	assert.True(t, f.store.has(tokens.RefreshToken))
}

func TestRefreshToken_RotatesAndRejectsReuse(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@example.com", "Password123")
	_, first, err := f.svc.Login(context.Background(), "alice@example.com", "Password123")
	require.NoError(t, err)

	second, err := f.svc.RefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.False(t, f.store.has(first.RefreshToken))
	assert.True(t, f.store.has(second.RefreshToken))

	_, err = f.svc.RefreshToken(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Contains(t, apperr.As(err).PublicMessage(), "revoked")
}

func TestRefreshToken_ConcurrentReuseSucceedsOnce(t *testing.T) {
	f := newAuthFixture(t)
	_, tokens := f.register(t, "alice@example.com", "Password123")

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		revoked   int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.RefreshToken(context.Background(), tokens.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if apperr.Is(err, apperr.KindAuthentication) {
				revoked++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, revoked)
}

func TestRefreshToken_RejectedAfterLogout(t *testing.T) {
	f := newAuthFixture(t)
	user, tokens := f.register(t, "alice@example.com", "Password123")
	_, other, err := f.svc.Login(context.Background(), "alice@example.com", "Password123")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), tokens.AccessToken))

	for _, refresh := range []string{tokens.RefreshToken, other.RefreshToken} {
		_, err := f.svc.RefreshToken(context.Background(), refresh)
		assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	}
	assert.Equal(t, 0, f.store.countFor(user.UUID))

	session, err := f.sessions.GetSession(context.Background(), user.UUID)
	require.NoError(t, err)
	assert.Nil(t, session)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, events.UserLoggedOut, user.UUID, mock.Anything)
}

func TestRefreshToken_ExpiredRowIsRemoved(t *testing.T) {
	f := newAuthFixture(t)
	user, tokens := f.register(t, "alice@example.com", "Password123")

	hash := security.HashToken(tokens.RefreshToken)
	f.store.mu.Lock()
	f.store.rows[hash].ExpiresAt = time.Now().Add(-time.Minute)
	f.store.mu.Unlock()

	_, err := f.svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Contains(t, apperr.As(err).PublicMessage(), "expired")
	assert.Equal(t, 0, f.store.countFor(user.UUID))
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	_, tokens := f.register(t, "alice@example.com", "Password123")

	_, err := f.svc.RefreshToken(context.Background(), tokens.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.True(t, f.store.has(tokens.RefreshToken), "failed refresh must not consume the grant")
}

func TestRefreshToken_ExpiredJWT(t *testing.T) {
	f := newAuthFixture(t)
	user, _ := f.register(t, "alice@example.com", "Password123")

	expired, _, err := f.tokens.Issue(security.Subject{UserUUID: user.UUID, Email: user.Email, Role: user.Role}, security.RefreshToken, -time.Second)
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), expired)
	require.Error(t, err)
	assert.Equal(t, "refresh token expired", apperr.As(err).PublicMessage())
}

func TestLogout_RequiresValidAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	user, tokens := f.register(t, "alice@example.com", "Password123")

	for _, token := range []string{"", "garbage", tokens.RefreshToken} {
		err := f.svc.Logout(context.Background(), token)
		assert.True(t, apperr.Is(err, apperr.KindAuthentication), token)
	}
	assert.Equal(t, 1, f.store.countFor(user.UUID))
}

func TestLogout_Idempotent(t *testing.T) {
	f := newAuthFixture(t)
	user, tokens := f.register(t, "alice@example.com", "Password123")

	require.NoError(t, f.svc.Logout(context.Background(), tokens.AccessToken))
	require.NoError(t, f.svc.Logout(context.Background(), tokens.AccessToken))
	assert.Equal(t, 0, f.store.countFor(user.UUID))
}

func TestSession(t *testing.T) {
	f := newAuthFixture(t)
	user, _ := f.register(t, "alice@example.com", "Password123")

	session, err := f.svc.Session(context.Background(), user.UUID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleLearner, session.Role)

	_, err = f.svc.Session(context.Background(), "unknown")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	f.sessions.failWith = errCacheDown
	_, err = f.svc.Session(context.Background(), user.UUID)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}
