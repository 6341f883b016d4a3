package security

import (
	"errors"
	"fmt"
	"time"

	"lms-platform/config"
	"lms-platform/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "lms-auth"

// signingMethod : единственный принимаемый алгоритм; всё остальное, включая none, отвергается
var signingMethod = jwt.SigningMethodHS256

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// TokenKind : дискриминатор access/refresh в claim "type"
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type Claims struct {
	UserUUID string     `json:"user_id"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Type     TokenKind  `json:"type"`
	jwt.RegisteredClaims
}

// Subject : данные пользователя, которые попадают в токен
type Subject struct {
	UserUUID string
	Email    string
	Role     model.Role
}

func (c *Claims) AsSubject() Subject {
	return Subject{UserUUID: c.UserUUID, Email: c.Email, Role: c.Role}
}

// TokenService : выпуск и проверка подписанных токенов. Без состояния,
// безопасен для конкурентного использования.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(cfg *config.JWTConfig) (*TokenService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
	}, nil
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Issue : подписывает токен вида kind со сроком жизни ttl.
// jti уникален, поэтому два токена с одинаковыми claims в одну секунду различаются.
func (s *TokenService) Issue(subject Subject, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserUUID: subject.UserUUID,
		Email:    subject.Email,
		Role:     subject.Role,
		Type:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.UserUUID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}

	return token, expiresAt, nil
}

// GenerateAccessRefreshTokens : пара токенов для пользователя
func (s *TokenService) GenerateAccessRefreshTokens(subject Subject) (*model.TokensPair, error) {
	accessToken, accessExp, err := s.Issue(subject, AccessToken, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExp, err := s.Issue(subject, RefreshToken, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &model.TokensPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ValidateJWT : проверяет подпись, алгоритм, срок и вид токена.
// Возвращает ErrExpiredToken или ErrInvalidToken, никогда не паникует.
func (s *TokenService) ValidateJWT(tokenStr string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, kind, claims.Type)
	}
	if claims.UserUUID == "" || claims.UserUUID != claims.RegisteredClaims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	if _, err := model.ParseRole(string(claims.Role)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}
