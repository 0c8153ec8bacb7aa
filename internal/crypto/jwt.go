package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrWeakSecret      = errors.New("jwt secret must be at least 32 bytes")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrEmptyUserAgent  = errors.New("user agent cannot be empty")
	ErrMalformedHeader = errors.New("authorization header must start with 'Bearer '")
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 30 * 24 * time.Hour

const minSecretLen = 32

// Claims are the session token contents: the user's email as subject plus
// the User-Agent the token was issued to. A token presented from a different
// client string is rejected, which loosely pins the session to one client.
type Claims struct {
	jwt.RegisteredClaims
	UserAgent string `json:"userAgent"`
}

// Email returns the token subject.
func (c *Claims) Email() string {
	return c.Subject
}

// GenerateToken creates a signed HS256 session token for the given user
// and client.
func GenerateToken(email, userAgent, secret string) (string, error) {
	if email == "" {
		return "", ErrEmptyEmail
	}
	if userAgent == "" {
		return "", ErrEmptyUserAgent
	}
	if len(secret) < minSecretLen {
		return "", ErrWeakSecret
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserAgent: userAgent,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a session token, checking that it was
// issued to the given User-Agent.
func ValidateToken(tokenString, userAgent, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserAgent != userAgent {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearer pulls the raw token out of an Authorization header value.
func ExtractBearer(header string) (string, error) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", ErrMalformedHeader
	}
	return token, nil
}
