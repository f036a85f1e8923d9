package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avelev/review-system/internal/delivery/http/response"
	"github.com/avelev/review-system/internal/domain"
	"github.com/avelev/review-system/internal/pkg/logger"
)

type contextKey int

const identityKey contextKey = iota

// IdentityFromContext returns the authenticated caller placed in the request
// context by Authenticate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// ContextWithIdentity injects an identity. Exposed for handler tests.
func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Authenticate validates the Bearer token and threads the caller identity
// through the request context. Identity issuance is external; the token is
// trusted once the HMAC signature checks out.
func Authenticate(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				response.Error(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.WithFields(map[string]interface{}{
					"path": r.URL.Path,
				}).Debug("Rejected invalid token")
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			identity, ok := identityFromClaims(token.Claims)
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole guards a route subtree behind a role carried in the token.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !identity.HasRole(role) {
				response.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func identityFromClaims(claims jwt.Claims) (domain.Identity, bool) {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, false
	}

	sub, _ := mapClaims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return domain.Identity{}, false
	}

	username, _ := mapClaims["name"].(string)

	var roles []string
	if rawRoles, ok := mapClaims["roles"].([]interface{}); ok {
		for _, raw := range rawRoles {
			if role, ok := raw.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	return domain.Identity{
		ID:       id,
		Username: username,
		Roles:    roles,
	}, true
}
