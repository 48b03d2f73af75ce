package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the session cookie the API issues on login.
const CookieName = "roombook_session"

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionManager issues signed session tokens and keeps one live session
// record per user in redis. A cookie is only valid while its record exists,
// so logout and account deactivation take effect immediately.
type SessionManager struct {
	secretKey string
	ttl       time.Duration
	redis     *redis.Client
}

func NewSessionManager(secret string, ttl time.Duration, rdb *redis.Client) *SessionManager {
	return &SessionManager{secretKey: secret, ttl: ttl, redis: rdb}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

func sessionKey(userID string) string { return "session:" + userID }

// Start creates a session for the user and returns the cookie token.
// Starting a new session replaces any previous one for the same user.
func (m *SessionManager) Start(ctx context.Context, userID string) (string, error) {
	token, err := m.generate(userID)
	if err != nil {
		return "", err
	}
	if err := m.redis.Set(ctx, sessionKey(userID), token, m.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Validate checks the token signature and that it is still the user's live
// session, returning the user id.
func (m *SessionManager) Validate(ctx context.Context, token string) (string, error) {
	claims, err := m.verify(token)
	if err != nil {
		return "", ErrInvalidSession
	}

	stored, err := m.redis.Get(ctx, sessionKey(claims.Subject)).Result()
	if err != nil || stored != token {
		return "", ErrInvalidSession
	}

	return claims.Subject, nil
}

// End drops the user's session record, invalidating outstanding cookies.
func (m *SessionManager) End(ctx context.Context, userID string) error {
	return m.redis.Del(ctx, sessionKey(userID)).Err()
}

func (m *SessionManager) generate(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

func (m *SessionManager) verify(accessToken string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
