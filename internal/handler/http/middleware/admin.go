package middleware

import (
	"net/http"

	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
)

// RequireAdmin requires the admin role. Must run after AuthRequired.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if !p.IsAdmin() {
			response.Forbidden(w, "Admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
