package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/models"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
	"github.com/ahmedXDR/auth-visage-backend/internal/token"
	"github.com/ahmedXDR/auth-visage-backend/internal/util"

	"github.com/google/uuid"
)

// SignInService owns first-party platform sessions, issued when a face
// login succeeds. Same rotation discipline as OAuthService, without a
// project in the picture.
type SignInService struct {
	store  *store.Store
	config *config.Config
	issuer *token.LocalIssuer
}

func NewSignInService(
	s *store.Store,
	cfg *config.Config,
	issuer *token.LocalIssuer,
) *SignInService {
	return &SignInService{
		store:  s,
		config: cfg,
		issuer: issuer,
	}
}

// IssueTokens creates a sign-in session with its first refresh token and
// mints an access token for it.
func (s *SignInService) IssueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	notAfter := time.Now().Add(s.config.RefreshCookieMaxAge)
	session := &models.SignInSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		RefreshedAt: time.Now(),
		NotAfter:    &notAfter,
	}

	plainRefresh, err := util.RandomToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshToken := &models.SignInRefreshToken{
		TokenHash: util.SHA256Hex(plainRefresh),
	}

	if err := s.store.CreateSignInSession(session, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to create sign-in session: %w", err)
	}

	accessToken, err := s.issuer.IssueAccessToken(ctx, userID, session.ID, "")
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken.TokenString,
		RefreshToken: plainRefresh,
		TokenType:    accessToken.TokenType,
		ExpiresIn:    int(s.config.JWTExpiration.Seconds()),
		SessionID:    session.ID,
	}, nil
}

// Rotate exchanges a first-party refresh token for a new pair.
func (s *SignInService) Rotate(ctx context.Context, plainRefresh string) (*TokenPair, error) {
	record, err := s.store.GetSignInRefreshTokenByHash(util.SHA256Hex(plainRefresh))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	session := record.Session
	if session.ID == "" {
		return nil, ErrInvalidRefreshToken
	}
	if session.IsExpired() {
		if err := s.store.DeleteSignInSession(session.ID); err != nil {
			log.Printf("[SignIn] failed to delete expired session %s: %v", session.ID, err)
		}
		return nil, ErrSessionExpired
	}

	newPlain, err := util.RandomToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	newToken := &models.SignInRefreshToken{
		TokenHash: util.SHA256Hex(newPlain),
		SessionID: session.ID,
	}
	if err := s.store.RotateSignInRefreshToken(record.ID, newToken); err != nil {
		if errors.Is(err, store.ErrRefreshTokenRotated) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	accessToken, err := s.issuer.IssueAccessToken(ctx, session.UserID, session.ID, "")
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken.TokenString,
		RefreshToken: newPlain,
		TokenType:    accessToken.TokenType,
		ExpiresIn:    int(s.config.JWTExpiration.Seconds()),
		SessionID:    session.ID,
	}, nil
}

// RevokeSession deletes the session and its refresh tokens.
func (s *SignInService) RevokeSession(ctx context.Context, sessionID string) error {
	return s.store.DeleteSignInSession(sessionID)
}
