package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
)

// ErrSessionNotFound is returned when the id has no live session.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExpired is returned when the rolling 7-day window has passed.
var ErrSessionExpired = errors.New("session expired")

// SessionData is the server-side session record. LoginAt is the persisted
// login timestamp the expiry policy runs against.
type SessionData struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	// Token is the hosted-auth bearer token captured at login. Session
	// requests reuse it for engagement-backend calls, so the client does
	// not have to keep replaying the JWT.
	Token        string    `json:"token,omitempty"`
	LoginAt      time.Time `json:"login_at"`
	CreatedAt    time.Time `json:"created_at"`
	ReturnURL    string    `json:"return_url,omitempty"`
	ReturnParams string    `json:"return_params,omitempty"`
	WarningShown bool      `json:"warning_shown"`
}

// Expired reports whether the session is past its 7-day window.
func (s *SessionData) Expired(now time.Time) bool {
	return now.Sub(s.LoginAt) > constants.SessionLifetime
}

// Slides reports whether the login timestamp renews on every valid check.
// Staff sessions slide; regular-user sessions keep a fixed window. The
// asymmetry is a deliberate policy carried over from the product.
func (s *SessionData) Slides() bool {
	return constants.ParseRole(s.Role).IsStaff()
}

// ExpiresAt is when the session dies if never renewed.
func (s *SessionData) ExpiresAt() time.Time {
	return s.LoginAt.Add(constants.SessionLifetime)
}

// SessionService manages user sessions in Redis.
type SessionService struct {
	redis *redis.Client
}

func NewSessionService(redis *redis.Client) *SessionService {
	return &SessionService{redis: redis}
}

func sessionKey(id string) string { return "session:" + id }

// CreateSession stores a fresh session with a 7-day TTL. The validated
// bearer token is persisted alongside so session-authenticated requests
// can still reach the engagement backend.
func (s *SessionService) CreateSession(ctx context.Context, userID, email, role, token, returnURL, returnParams string) (*SessionData, error) {
	now := time.Now()
	session := &SessionData{
		SessionID:    uuid.New().String(),
		UserID:       userID,
		Email:        email,
		Role:         role,
		Token:        token,
		LoginAt:      now,
		CreatedAt:    now,
		ReturnURL:    returnURL,
		ReturnParams: returnParams,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logging.Info("Session created", "session_id", session.SessionID, "user_id", userID, "role", role)
	return session, nil
}

// GetSession retrieves a session without applying expiry side effects.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	val, err := s.redis.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// CheckSessionExpiry applies the expiry policy: sessions past the 7-day
// window are deleted and reported expired. Valid staff sessions renew
// their login timestamp (sliding expiry); user sessions do not.
func (s *SessionService) CheckSessionExpiry(ctx context.Context, sessionID string) (*SessionData, bool, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if session.Expired(time.Now()) {
		if err := s.DeleteSession(ctx, sessionID); err != nil {
			logging.Warn("Failed to delete expired session", "session_id", sessionID, "error", err.Error())
		}
		return session, true, nil
	}

	if session.Slides() {
		session.LoginAt = time.Now()
		if err := s.save(ctx, session); err != nil {
			logging.Warn("Failed to renew staff session", "session_id", sessionID, "error", err.Error())
		}
	}

	return session, false, nil
}

// MarkWarningShown records the one-shot expiry warning flag.
func (s *SessionService) MarkWarningShown(ctx context.Context, sessionID string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.WarningShown {
		return nil
	}
	session.WarningShown = true
	return s.save(ctx, session)
}

// DeleteSession deletes a session from Redis.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListSessionIDs scans the keyspace for live session ids. Used by the
// expiry sweep worker.
func (s *SessionService) ListSessionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.redis.Scan(ctx, 0, sessionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len("session:"):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("session scan failed: %w", err)
	}
	return ids, nil
}

func (s *SessionService) save(ctx context.Context, session *SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// The Redis TTL is a backstop; policy expiry is LoginAt-based.
	if err := s.redis.Set(ctx, sessionKey(session.SessionID), data, constants.SessionLifetime).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
