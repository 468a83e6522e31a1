package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrEmptySecret  = errors.New("jwt secret must not be empty")
)

type sessionClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenService signs HS256 bearer tokens carrying the user's id, name and role.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ interfaces.ITokenService = (*JWTTokenService)(nil)

func NewJWTTokenService(secret string, ttl time.Duration) (*JWTTokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *JWTTokenService) Issue(u entities.User) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		UserID: u.ID,
		Name:   u.FullName,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *JWTTokenService) Parse(token string) (entities.AuthSession, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entities.AuthSession{}, ErrExpiredToken
		}
		return entities.AuthSession{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" {
		return entities.AuthSession{}, ErrInvalidToken
	}

	role, ok := entities.ParseRole(claims.Role)
	if !ok {
		return entities.AuthSession{}, ErrInvalidToken
	}

	return entities.AuthSession{
		UserID:    claims.UserID,
		FullName:  claims.Name,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
