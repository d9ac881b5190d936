package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTokenTTL  = 7 * 24 * time.Hour
	ExtendedTokenTTL = 30 * 24 * time.Hour
)

// ErrNoSigningKey is returned by Issue when the service has an empty secret.
var ErrNoSigningKey = errors.New("session token secret is empty")

// Claims carried by a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 session tokens.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	extendedTTL time.Duration
	now         func() time.Time
}

func NewTokenService(secret string, ttl, extendedTTL time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if extendedTTL <= 0 {
		extendedTTL = ExtendedTokenTTL
	}
	return &TokenService{
		secret:      []byte(secret),
		ttl:         ttl,
		extendedTTL: extendedTTL,
		now:         time.Now,
	}
}

// Issue signs a token for userID. extended selects the "remember me" lifetime.
func (s *TokenService) Issue(userID uuid.UUID, extended bool) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}
	now := s.now()
	ttl := s.ttl
	if extended {
		ttl = s.extendedTTL
	}
	exp := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, exp, nil
}

// Verify returns the user id embedded in tokenString. Tampered, expired and
// malformed tokens all yield ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	if len(s.secret) == 0 {
		return uuid.Nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// ExtractBearer pulls the token out of an "Authorization: Bearer <token>"
// value. Any other shape yields ok=false.
func ExtractBearer(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
