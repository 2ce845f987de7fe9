package utils

import (
	"fmt"
	"time"

	"go-shop/apperr"

	"github.com/dgrijalva/jwt-go"
)

// Purpose separates session tokens from email-verification tokens so one
// cannot stand in for the other.
type Purpose string

const (
	PurposeSession Purpose = "session"
	PurposeVerify  Purpose = "verify"
)

// Claims represents the JWT claims
type Claims struct {
	ID      string  `json:"id"`
	Email   string  `json:"email,omitempty"`
	Role    string  `json:"role,omitempty"`
	Purpose Purpose `json:"purpose"`
	jwt.StandardClaims
}

// TokenService signs and verifies HS256 bearer tokens. Tokens are stateless:
// one stays valid until its expiry no matter what happens to the account.
type TokenService struct {
	key []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{key: []byte(secret)}
}

// Issue signs claims that expire ttl from now.
func (ts *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and purpose.
func (ts *TokenService) Verify(tokenStr string, purpose Purpose) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return ts.key, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.ID == "" {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}
