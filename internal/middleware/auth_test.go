package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
)

type fakeSessionChecker struct {
	session *common.SessionData
	expired bool
	err     error
}

func (f *fakeSessionChecker) CheckSessionExpiry(ctx context.Context, sessionID string) (*common.SessionData, bool, error) {
	return f.session, f.expired, f.err
}

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func claimsCapturingHandler(captured *auth.UserClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.GetUserClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidBearer(t *testing.T) {
	var captured auth.UserClaims
	handler := AuthMiddleware(testSecret, nil)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-1", "organizer"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if captured == nil {
		t.Fatal("Expected claims in context")
	}
	if captured.UserID() != "user-1" {
		t.Errorf("Expected user-1, got %s", captured.UserID())
	}
	if captured.Role() != constants.RoleOrganizer {
		t.Errorf("Expected organizer role, got %s", captured.Role())
	}
	if captured.Source() != "JWT" {
		t.Errorf("Expected JWT source, got %s", captured.Source())
	}
}

func TestAuthMiddleware_WrongSecretRejected(t *testing.T) {
	var captured auth.UserClaims
	handler := AuthMiddleware(testSecret, nil)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "user-1", "user"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong secret, got %d", rec.Code)
	}
	if captured != nil {
		t.Error("Handler must not run for a rejected token")
	}
}

func TestAuthMiddleware_ExpiredTokenRejected(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte(testSecret))

	var captured auth.UserClaims
	handler := AuthMiddleware(testSecret, nil)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SessionCarriesBearerToken(t *testing.T) {
	sessions := &fakeSessionChecker{
		session: &common.SessionData{
			SessionID: "sess-1",
			UserID:    "user-1",
			Email:     "user-1@example.com",
			Role:      "user",
			Token:     "upstream-bearer",
			LoginAt:   time.Now(),
		},
	}

	var captured auth.UserClaims
	handler := AuthMiddleware(testSecret, sessions)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if captured == nil {
		t.Fatal("Expected claims in context")
	}
	if captured.Source() != "SESSION" {
		t.Errorf("Expected SESSION source, got %s", captured.Source())
	}
	// The persisted login token must flow through, or every
	// engagement-backend call behind a session would see no credential.
	if captured.Token() != "upstream-bearer" {
		t.Errorf("Expected the stored bearer token, got %q", captured.Token())
	}
	if captured.UserID() != "user-1" {
		t.Errorf("Expected user-1, got %s", captured.UserID())
	}
}

func TestAuthMiddleware_ExpiredSessionRejected(t *testing.T) {
	sessions := &fakeSessionChecker{
		session: &common.SessionData{SessionID: "sess-1", UserID: "user-1"},
		expired: true,
	}

	var captured auth.UserClaims
	handler := AuthMiddleware(testSecret, sessions)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for an expired session, got %d", rec.Code)
	}
	if captured != nil {
		t.Error("Handler must not run for an expired session")
	}
}

func TestAuthMiddleware_MissingCredentialsRejected(t *testing.T) {
	var captured auth.UserClaims
	handler := AuthMiddleware(testSecret, nil)(claimsCapturingHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", rec.Code)
	}
}

func TestRoleGuards(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name    string
		guard   func(http.Handler) http.Handler
		role    constants.Role
		allowed bool
	}{
		{"admin passes admin guard", IsAdminMiddleware(), constants.RoleAdmin, true},
		{"organizer blocked by admin guard", IsAdminMiddleware(), constants.RoleOrganizer, false},
		{"organizer passes staff guard", IsStaffMiddleware(), constants.RoleOrganizer, true},
		{"admin passes staff guard", IsStaffMiddleware(), constants.RoleAdmin, true},
		{"user blocked by staff guard", IsStaffMiddleware(), constants.RoleUser, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := auth.SetUserClaims(req.Context(), &auth.JWTClaims{Subject: "u", RoleValue: tc.role})
			rec := httptest.NewRecorder()

			tc.guard(next).ServeHTTP(rec, req.WithContext(ctx))

			if tc.allowed && rec.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", rec.Code)
			}
			if !tc.allowed && rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rec.Code)
			}
		})
	}
}
