// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	IsStaffKey  contextKey = "is_staff"
	IdentityKey contextKey = "identity"
)

// Identity is what a resolved bearer token carries into the request
// context. Sessions are durable opaque keys looked up server-side, so
// there are no claims beyond what the identity store returns.
type Identity struct {
	UserID  string
	IsStaff bool
}

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				core.JSONError(
					w,
					core.UnauthorizedError("invalid authorization token"),
				)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth resolves a bearer token when one is present but lets the
// request through either way. List and detail endpoints use it so public
// reads stay public.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				identity, err := verifier.VerifyToken(r.Context(), token)
				if err == nil {
					r = r.WithContext(withIdentity(r.Context(), identity))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			core.JSONError(
				w,
				core.UnauthorizedError("authentication required"),
			)
			return
		}

		if !IsStaff(r.Context()) {
			core.JSONError(
				w,
				core.ForbiddenError("staff access required"),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func withIdentity(ctx context.Context, identity *Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
	ctx = context.WithValue(ctx, IsStaffKey, identity.IsStaff)
	ctx = context.WithValue(ctx, IdentityKey, identity)
	return ctx
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func IsStaff(ctx context.Context) bool {
	if staff, ok := ctx.Value(IsStaffKey).(bool); ok {
		return staff
	}
	return false
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
