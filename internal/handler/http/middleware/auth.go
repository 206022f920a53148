package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
	"github.com/trakby/trakby-backend-go/internal/pkg/jwt"
)

type principalKey struct{}

// Principal is the authenticated caller taken from the access token.
type Principal struct {
	StaffID string
	Role    staff.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == staff.RoleAdmin
}

// AuthRequired rejects requests without a valid access token and stores the
// caller's Principal in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			staffID, ok := claims["staff_id"].(string)
			if !ok || staffID == "" {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}
			role, _ := claims["role"].(string)

			ctx := WithPrincipal(r.Context(), Principal{StaffID: staffID, Role: staff.ParseRole(role)})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller set by AuthRequired.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
