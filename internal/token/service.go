package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrTokenCreation is returned when a token cannot be signed.
	ErrTokenCreation = errors.New("token creation error")
	// ErrInvalidToken is returned for any token that fails to decode or validate.
	ErrInvalidToken = errors.New("invalid token")
)

// Config holds the static claims stamped on every issued token.
type Config struct {
	Subject string
	Company string
	TTL     time.Duration
}

// Service signs and verifies tokens with a single key pair.
type Service struct {
	keys    *Keys
	cfg     Config
	method  jwt.SigningMethod
	timeNow func() time.Time
}

// NewService creates a token service.
func NewService(keys *Keys, cfg Config) *Service {
	return &Service{
		keys:    keys,
		cfg:     cfg,
		method:  jwt.SigningMethodHS256,
		timeNow: time.Now,
	}
}

// Issue signs a new token carrying the configured claims.
func (s *Service) Issue() (string, *Claims, error) {
	now := s.timeNow().UTC()

	claims := &Claims{
		Company: s.cfg.Company,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.cfg.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.keys.encoding)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrTokenCreation, err)
	}

	return signed, claims, nil
}

// Parse validates tokenString and returns its claims.
// Only HS256 is accepted and exp must be present.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return s.keys.decoding, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.timeNow),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims, nil
}
