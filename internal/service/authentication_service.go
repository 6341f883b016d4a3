package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"lms-platform/internal/apperr"
	"lms-platform/internal/events"
	"lms-platform/internal/model"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// errInvalidCredentials : одинаковый ответ для неизвестного email и неверного пароля
var errInvalidCredentials = apperr.Authentication("invalid credentials", nil)

type AuthenticationService struct {
	userRepository ports.UserRepository
	refreshTokens  ports.RefreshTokenRepository
	sessions       ports.SessionCache
	jwtService     ports.JWTServiceInterface
	publisher      ports.EventPublisher
	now            func() time.Time
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	refreshTokens ports.RefreshTokenRepository,
	sessions ports.SessionCache,
	jwtService ports.JWTServiceInterface,
	publisher ports.EventPublisher,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository: userRepository,
		refreshTokens:  refreshTokens,
		sessions:       sessions,
		jwtService:     jwtService,
		publisher:      publisher,
		now:            time.Now,
	}
}

// Register : создаёт пользователя и сразу выдаёт пару токенов.
// Роль administrator через самостоятельную регистрацию не выдаётся.
func (s *AuthenticationService) Register(ctx context.Context, email, password, name, role string) (*model.User, *model.TokensPair, error) {
	logger := zerolog.Ctx(ctx)
	email = normalizeEmail(email)

	_, err := s.userRepository.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, nil, apperr.Conflict("email already registered", nil)
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, apperr.Internal("не удалось создать хэш пароля", err)
	}

	grantedRole := model.SelfRegistrationRole(role)
	if role != "" && model.Role(role) != grantedRole {
		logger.Warn().Str("requested_role", role).Str("granted_role", string(grantedRole)).Msg("[AuthService] роль понижена при регистрации")
	}

	user, err := s.userRepository.CreateUser(ctx, &model.User{
		UUID:         uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         grantedRole,
	})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.UserRegistered, user.UUID, events.UserRegisteredPayload{
		UserID: user.UUID,
		Email:  user.Email,
		Role:   string(user.Role),
	})

	logger.Info().Str("user_id", user.UUID).Str("role", string(user.Role)).Msg("[AuthService] пользователь зарегистрирован")
	return user, tokens, nil
}

// Login : проверяет пароль и выдаёт новую пару токенов.
// Ранее выданные refresh-токены остаются действительными.
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.User, *model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			security.SpendPasswordCheck(password)
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, err
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, errInvalidCredentials
	}

	tokens, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.UUID).Msg("[AuthService] вход выполнен")
	return user, tokens, nil
}

// RefreshToken : ротация refresh-токена.
//  1. токен проверяется как refresh (подпись, срок, type);
//  2. его хэш должен быть в хранилище, иначе токен отозван или уже ротирован;
//  3. истёкшая строка удаляется;
//  4. выпускается новая пара;
//  5. старая строка удаляется и новая вставляется в одной транзакции,
//     из двух параллельных запросов с одним токеном проходит только один;
//  6. обновляется сессия в кэше.
func (s *AuthenticationService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	logger := zerolog.Ctx(ctx)

	claims, err := s.jwtService.ValidateJWT(refreshToken, security.RefreshToken)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, apperr.Authentication("refresh token expired", err)
		}
		return nil, apperr.Authentication("invalid refresh token", err)
	}

	tokenHash := security.HashToken(refreshToken)

	stored, err := s.refreshTokens.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ports.ErrRefreshTokenRevoked) {
			logger.Info().Str("user_id", claims.UserUUID).Msg("[AuthService] refresh token не найден или отозван")
			return nil, apperr.Authentication("refresh token not found or revoked", err)
		}
		return nil, err
	}
	if stored.UserUUID != claims.UserUUID {
		return nil, apperr.Authentication("refresh token not found or revoked", nil)
	}

	if stored.Expired(s.now()) {
		if err := s.refreshTokens.DeleteByHash(ctx, tokenHash); err != nil {
			logger.Warn().Err(err).Msg("[AuthService] не удалось удалить истёкший refresh token")
		}
		return nil, apperr.Authentication("refresh token expired", nil)
	}

	tokens, err := s.jwtService.GenerateAccessRefreshTokens(claims.AsSubject())
	if err != nil {
		return nil, apperr.Internal("ошибка генерации токенов", err)
	}

	next := &model.RefreshToken{
		UUID:      uuid.NewString(),
		UserUUID:  claims.UserUUID,
		TokenHash: security.HashToken(tokens.RefreshToken),
		ExpiresAt: tokens.RefreshExpiresAt,
	}
	if err := s.refreshTokens.Rotate(ctx, tokenHash, next); err != nil {
		if errors.Is(err, ports.ErrRefreshTokenRevoked) {
			logger.Warn().Str("user_id", claims.UserUUID).Msg("[AuthService] повторное использование refresh token")
			return nil, apperr.Authentication("refresh token not found or revoked", err)
		}
		return nil, err
	}

	s.touchSession(ctx, claims.UserUUID, claims.Email, claims.Role)
	return tokens, nil
}

// Logout : отзывает все refresh-токены пользователя и удаляет сессию.
// Пользователь определяется по проверенному access-токену, не по заголовкам.
func (s *AuthenticationService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateJWT(accessToken, security.AccessToken)
	if err != nil {
		return apperr.Authentication("invalid or expired token", err)
	}

	revoked, err := s.refreshTokens.DeleteAllForUser(ctx, claims.UserUUID)
	if err != nil {
		return err
	}

	if err := s.sessions.DeleteSession(ctx, claims.UserUUID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("[AuthService] не удалось удалить сессию из кэша")
	}

	s.publish(ctx, events.UserLoggedOut, claims.UserUUID, events.UserLoggedOutPayload{
		UserID:        claims.UserUUID,
		RevokedTokens: revoked,
	})

	zerolog.Ctx(ctx).Info().Str("user_id", claims.UserUUID).Int64("revoked", revoked).Msg("[AuthService] выход выполнен")
	return nil
}

// Session : запись кэша сессии, NotFound если её нет
func (s *AuthenticationService) Session(ctx context.Context, userUUID string) (*model.Session, error) {
	session, err := s.sessions.GetSession(ctx, userUUID)
	if err != nil {
		return nil, apperr.Internal("session cache unavailable", err)
	}
	if session == nil {
		return nil, apperr.NotFound("session not found", nil)
	}
	return session, nil
}

// startSession : пара токенов, строка refresh-токена и запись сессии
func (s *AuthenticationService) startSession(ctx context.Context, user *model.User) (*model.TokensPair, error) {
	tokens, err := s.jwtService.GenerateAccessRefreshTokens(security.Subject{
		UserUUID: user.UUID,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return nil, apperr.Internal("ошибка генерации токенов", err)
	}

	err = s.refreshTokens.SaveRefreshToken(ctx, &model.RefreshToken{
		UUID:      uuid.NewString(),
		UserUUID:  user.UUID,
		TokenHash: security.HashToken(tokens.RefreshToken),
		ExpiresAt: tokens.RefreshExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	s.touchSession(ctx, user.UUID, user.Email, user.Role)
	return tokens, nil
}

// touchSession : кэш не источник истины, ошибка только логируется
func (s *AuthenticationService) touchSession(ctx context.Context, userUUID, email string, role model.Role) {
	err := s.sessions.SetSession(ctx, userUUID, &model.Session{
		Email:      email,
		Role:       role,
		LastSeenAt: s.now().UTC(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", userUUID).Msg("[AuthService] не удалось записать сессию в кэш")
	}
}

func (s *AuthenticationService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", eventType).Msg("[AuthService] не удалось опубликовать событие")
	}
}

// normalizeEmail : email хранится и ищется в нижнем регистре
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
