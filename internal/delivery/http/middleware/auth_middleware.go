package middleware

import (
	"context"
	"net/http"
	"strings"

	"medical-center/internal/domain/entity"
	"medical-center/internal/service"
	"medical-center/pkg/jwt"
	"medical-center/pkg/response"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	sessions   service.SessionStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessions service.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Only tokens still present in the session store are honoured.
		exists, err := m.sessions.Exists(r.Context(), claims.CredentialID, jwt.AccessToken, claims.TokenID)
		if err != nil {
			response.ServiceUnavailable(w, "Failed to validate token")
			return
		}
		if !exists {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := entity.WithPrincipal(r.Context(), entity.Principal{
			CredentialID: claims.CredentialID,
			Identifier:   claims.Identifier,
			Privilege:    claims.Privilege,
			TokenID:      claims.TokenID,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipalFromContext extracts the authenticated caller from context
func GetPrincipalFromContext(ctx context.Context) (entity.Principal, bool) {
	return entity.PrincipalFrom(ctx)
}

// RequirePrivilege rejects callers below the given privilege tier. It must run
// after Authenticate.
func RequirePrivilege(min int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			if principal.Privilege < min {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireElevated is a convenience middleware for elevated-only endpoints
func RequireElevated(next http.Handler) http.Handler {
	return RequirePrivilege(entity.PrivilegeAdmin)(next)
}
