package middleware

import (
	"net/http"

	"crown-platform/backend/internal/auth"
)

// IsStaffMiddleware admits organizers and admins.
func IsStaffMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.Role().IsStaff() {
				http.Error(w, "Unauthorized. Need organizer perms", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
