// Package auth resolves bearer credentials that are not API keys.
package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/docuvault/group-manager/internal/domain"
)

// OIDCVerifier validates OIDC ID tokens issued for this service and maps
// them to principals. Admin emails receive the admin capability; every other
// verified token authenticates with no capabilities.
type OIDCVerifier struct {
	verifier    *oidc.IDTokenVerifier
	adminEmails map[string]bool
}

// OIDCClaims represents the claims read from an ID token.
type OIDCClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// NewOIDCVerifier discovers the issuer and prepares a token verifier.
func NewOIDCVerifier(ctx context.Context, issuerURL, clientID string, adminEmails []string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[email] = true
	}

	return &OIDCVerifier{
		verifier:    provider.Verifier(&oidc.Config{ClientID: clientID}),
		adminEmails: admins,
	}, nil
}

// VerifyToken validates a raw ID token and returns the principal it
// resolves to.
func (v *OIDCVerifier) VerifyToken(ctx context.Context, rawToken string) (*domain.Principal, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("verifying ID token: %w", err)
	}

	var claims OIDCClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parsing ID token claims: %w", err)
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("email not verified: %s", claims.Email)
	}

	principal := &domain.Principal{
		ID:   claims.Subject,
		Name: claims.Email,
	}
	if v.adminEmails[claims.Email] {
		principal.Capabilities = []domain.Capability{domain.CapabilityAdmin}
	}
	return principal, nil
}
