package jwtutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed input, wrong algorithm, expiry, missing subject.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 tokens with a fixed key and lifetime.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *Codec) Issue(userID string) (string, error) {
	return GenerateToken(c.secret, c.ttl, userID, c.now())
}

func (c *Codec) Verify(token string) (string, error) {
	claims, err := ParseToken(c.secret, token, c.now())
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func GenerateToken(secret []byte, ttl time.Duration, userID string, now time.Time) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("generate token failed: empty subject")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

func ParseToken(secret []byte, tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
