package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
	"github.com/ahmedXDR/auth-visage-backend/internal/util"
)

// Trust policy errors
var (
	ErrInvalidOrigin      = errors.New("origin not trusted for project")
	ErrInvalidLoginOrigin = errors.New("origin not trusted for login")
)

// TrustPolicy answers the questions the auth flows ask: is this origin
// allowed for the project or for first-party login, and has this user
// already consented.
type TrustPolicy struct {
	store *store.Store

	// First-party login is only served to these origins. Configured, not
	// stored per project, because login belongs to the platform itself.
	loginOrigins map[string]struct{}
}

func NewTrustPolicy(s *store.Store, trustedLoginOrigins []string) *TrustPolicy {
	origins := make(map[string]struct{}, len(trustedLoginOrigins))
	for _, o := range trustedLoginOrigins {
		origins[util.NormalizeOrigin(o)] = struct{}{}
	}
	return &TrustPolicy{store: s, loginOrigins: origins}
}

// ValidateOrigin checks the request origin against the project's
// registered trusted origins. Matching is exact after normalization.
func (p *TrustPolicy) ValidateOrigin(origin, projectID string) error {
	if origin == "" {
		return ErrInvalidOrigin
	}
	trusted, err := p.store.IsTrustedOrigin(projectID, origin)
	if err != nil {
		return fmt.Errorf("failed to check trusted origin: %w", err)
	}
	if !trusted {
		return ErrInvalidOrigin
	}
	return nil
}

// ValidateLoginOrigin checks the request origin against the configured
// first-party login origins. Matching is exact after normalization.
func (p *TrustPolicy) ValidateLoginOrigin(origin string) error {
	if origin == "" {
		return ErrInvalidLoginOrigin
	}
	if _, ok := p.loginOrigins[util.NormalizeOrigin(origin)]; !ok {
		return ErrInvalidLoginOrigin
	}
	return nil
}

// HasConsent reports whether the user already granted the project
// access. Absence is not an error; it routes the flow to consent capture.
func (p *TrustPolicy) HasConsent(ctx context.Context, ownerID, projectID string) (bool, error) {
	_, err := p.store.GetUserProjectLink(ownerID, projectID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GrantConsent records the user's one-time consent. Granting twice is a
// no-op.
func (p *TrustPolicy) GrantConsent(ctx context.Context, ownerID, projectID string) error {
	return p.store.UpsertUserProjectLink(&models.UserProjectLink{
		UserID:    ownerID,
		ProjectID: projectID,
	})
}

// TouchSignIn advances the link's last_sign_in stamp on code issuance.
func (p *TrustPolicy) TouchSignIn(ctx context.Context, ownerID, projectID string) error {
	return p.store.TouchLastSignIn(ownerID, projectID, time.Now())
}
