package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/docuvault/group-manager/internal/storage"
)

type contextKey string

const principalContextKey contextKey = "principal"

// TokenVerifier validates a bearer credential that did not match any API
// key and resolves it to a principal. Implemented by auth.OIDCVerifier.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, rawToken string) (*domain.Principal, error)
}

// Auth creates authentication middleware. Callers present a bearer
// credential: an API key, the bootstrap key while no API keys exist, or an
// OIDC ID token when a verifier is configured. The resolved principal is
// stored in the request context; nothing past this middleware runs for an
// unauthenticated request.
func Auth(store storage.Storage, bootstrapKey string, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"code":401,"message":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, `{"code":401,"message":"invalid authorization header format"}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				http.Error(w, `{"code":401,"message":"empty credential"}`, http.StatusUnauthorized)
				return
			}

			ctx := r.Context()

			// Check if we have any API keys in the database
			keyCount, err := store.CountAPIKeys(ctx)
			if err != nil {
				http.Error(w, `{"code":500,"message":"internal server error"}`, http.StatusInternalServerError)
				return
			}

			// If no keys exist and bootstrap key is set, allow bootstrap key.
			// It carries the admin capability so the first real key can be minted.
			if keyCount == 0 && bootstrapKey != "" {
				if subtle.ConstantTimeCompare([]byte(token), []byte(bootstrapKey)) == 1 {
					principal := &domain.Principal{
						ID:           "bootstrap",
						Name:         "Bootstrap Key",
						Capabilities: []domain.Capability{domain.CapabilityAdmin},
					}
					ctx = context.WithValue(ctx, principalContextKey, principal)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// Hash the provided credential and look it up as an API key
			keyHash := hashAPIKey(token)
			storedKey, err := store.GetAPIKeyByHash(ctx, keyHash)
			if err == nil {
				// Update last used timestamp (fire and forget)
				go func() {
					_ = store.UpdateAPIKeyLastUsed(context.Background(), storedKey.ID)
				}()

				ctx = context.WithValue(ctx, principalContextKey, storedKey.Principal())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if !errors.Is(err, domain.ErrNotFound) {
				http.Error(w, `{"code":500,"message":"internal server error"}`, http.StatusInternalServerError)
				return
			}

			// Not an API key; try it as an OIDC ID token
			if verifier != nil {
				principal, err := verifier.VerifyToken(ctx, token)
				if err == nil {
					ctx = context.WithValue(ctx, principalContextKey, principal)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"code":401,"message":"invalid credentials"}`, http.StatusUnauthorized)
		})
	}
}

// RequireCapability rejects requests whose principal lacks the capability.
// It runs before any handler logic, so a forbidden caller causes no side
// effect.
func RequireCapability(c domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				http.Error(w, `{"code":401,"message":"unauthenticated"}`, http.StatusUnauthorized)
				return
			}
			if !principal.Has(c) {
				http.Error(w, `{"code":403,"message":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// hashAPIKey creates a SHA-256 hash of the API key.
// We use SHA-256 for fast lookups since API keys are already high-entropy random strings.
func hashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// GetPrincipal retrieves the authenticated principal from the request context.
func GetPrincipal(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(principalContextKey).(*domain.Principal)
	return principal
}
