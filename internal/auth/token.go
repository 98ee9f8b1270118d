package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

const DefaultTokenTTL = 2 * time.Hour

// TokenCodec signs and verifies identity payloads.
type TokenCodec interface {
	Sign(payload IdentityPayload) (string, error)
	Verify(token string) (IdentityPayload, error)
}

// Claims is the JWT body: the identity fields plus the registered claims.
type Claims struct {
	IdentityPayload
	jwt.RegisteredClaims
}

type JWTTokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokenCodec(secret string, ttl time.Duration) *JWTTokenCodec {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTTokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign issues a fresh HS256 token. Every call gets a new jti, so two tokens
// for the same payload never compare equal.
func (c *JWTTokenCodec) Sign(payload IdentityPayload) (string, error) {
	now := c.now()
	claims := &Claims{
		IdentityPayload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   payload.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the identity fields only.
func (c *JWTTokenCodec) Verify(tokenString string) (IdentityPayload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return IdentityPayload{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return IdentityPayload{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return IdentityPayload{}, ErrInvalidToken
	}
	if claims.IdentityPayload.ID == "" || claims.IdentityPayload.BusinessID == "" {
		return IdentityPayload{}, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}
	return claims.IdentityPayload, nil
}
