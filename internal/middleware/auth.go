package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
)

// SessionChecker is the slice of the session service the middleware
// needs; tests substitute fakes.
type SessionChecker interface {
	CheckSessionExpiry(ctx context.Context, sessionID string) (*common.SessionData, bool, error)
}

// AuthMiddleware authenticates every request. Two credentials are
// accepted: a hosted-auth bearer JWT, or an X-Session-Id pointing at a
// server-side session. Session requests run through the expiry policy
// on every hit, so a stale session dies here rather than deep in a
// handler.
func AuthMiddleware(jwtSecret string, sessionSvc SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			sessionID := r.Header.Get("X-Session-Id")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				raw := strings.TrimPrefix(authHeader, "Bearer ")
				parsed, err := parseJWT(raw, jwtSecret)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = parsed

			case sessionID != "":
				session, expired, err := sessionSvc.CheckSessionExpiry(r.Context(), sessionID)
				if err != nil {
					http.Error(w, "Unauthorized. Unknown session", http.StatusUnauthorized)
					return
				}
				if expired {
					http.Error(w, "Unauthorized. Session expired", http.StatusUnauthorized)
					return
				}
				claims = &auth.SessionClaims{
					Subject:   session.UserID,
					EmailVal:  session.Email,
					RoleValue: constants.ParseRole(session.Role),
					SessionID: session.SessionID,
					RawToken:  session.Token,
				}

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseJWT(raw, secret string) (*auth.JWTClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	return &auth.JWTClaims{
		Subject:   sub,
		EmailVal:  email,
		RoleValue: constants.ParseRole(role),
		RawToken:  raw,
	}, nil
}
