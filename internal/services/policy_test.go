package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrigin(t *testing.T) {
	s := setupTestStore(t)
	policy := NewTrustPolicy(s, nil)
	project := createTestProject(t, s, "https://app.example.com")

	assert.NoError(t, policy.ValidateOrigin("https://app.example.com", project.ID))
	assert.ErrorIs(t, policy.ValidateOrigin("https://evil.example.com", project.ID), ErrInvalidOrigin)
	assert.ErrorIs(t, policy.ValidateOrigin("", project.ID), ErrInvalidOrigin)
}

func TestValidateOrigin_Normalization(t *testing.T) {
	s := setupTestStore(t)
	policy := NewTrustPolicy(s, nil)
	project := createTestProject(t, s, "https://App.Example.com/")

	// Stored and presented origins are both normalized before comparison.
	assert.NoError(t, policy.ValidateOrigin("https://app.example.com", project.ID))
	assert.NoError(t, policy.ValidateOrigin("HTTPS://APP.EXAMPLE.COM/", project.ID))
}

func TestValidateLoginOrigin(t *testing.T) {
	s := setupTestStore(t)
	policy := NewTrustPolicy(s, []string{
		"https://account.example.com",
		"https://Portal.Example.com/",
	})

	assert.NoError(t, policy.ValidateLoginOrigin("https://account.example.com"))
	// Configured and presented origins are both normalized.
	assert.NoError(t, policy.ValidateLoginOrigin("HTTPS://portal.example.com/"))
	assert.ErrorIs(t, policy.ValidateLoginOrigin("https://evil.example.com"), ErrInvalidLoginOrigin)
	assert.ErrorIs(t, policy.ValidateLoginOrigin(""), ErrInvalidLoginOrigin)
}

func TestValidateLoginOrigin_NoneConfigured(t *testing.T) {
	s := setupTestStore(t)
	policy := NewTrustPolicy(s, nil)

	// No configured origins means first-party login is closed.
	assert.ErrorIs(t, policy.ValidateLoginOrigin("https://account.example.com"), ErrInvalidLoginOrigin)
}

func TestConsentLifecycle(t *testing.T) {
	s := setupTestStore(t)
	policy := NewTrustPolicy(s, nil)
	project := createTestProject(t, s, "https://app.example.com")
	userID := uuid.New().String()

	has, err := policy.HasConsent(context.Background(), userID, project.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, policy.GrantConsent(context.Background(), userID, project.ID))

	has, err = policy.HasConsent(context.Background(), userID, project.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// Granting twice is a no-op.
	require.NoError(t, policy.GrantConsent(context.Background(), userID, project.ID))
}

func TestTouchSignIn(t *testing.T) {
	s := setupTestStore(t)
	policy := NewTrustPolicy(s, nil)
	project := createTestProject(t, s, "https://app.example.com")
	userID := uuid.New().String()

	// No consent link yet: nothing to touch.
	err := policy.TouchSignIn(context.Background(), userID, project.ID)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, s.UpsertUserProjectLink(&models.UserProjectLink{
		UserID:    userID,
		ProjectID: project.ID,
	}))
	require.NoError(t, policy.TouchSignIn(context.Background(), userID, project.ID))

	link, err := s.GetUserProjectLink(userID, project.ID)
	require.NoError(t, err)
	require.NotNil(t, link.LastSignIn)
	assert.WithinDuration(t, time.Now(), *link.LastSignIn, 5*time.Second)
}
