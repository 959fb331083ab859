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

// OAuth code and token errors
var (
	ErrCodeNotFound        = errors.New("authorization code not found")
	ErrCodeExpired         = errors.New("authorization code expired")
	ErrVerifierMismatch    = errors.New("invalid code_verifier")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrSessionExpired      = errors.New("session expired")
	ErrInvalidProject      = errors.New("invalid project")
)

// OAuthService owns the authorization-code and token lifecycle for
// project-facing (third-party) sign-ins.
type OAuthService struct {
	store  *store.Store
	config *config.Config
	issuer *token.LocalIssuer
	policy *TrustPolicy
}

func NewOAuthService(
	s *store.Store,
	cfg *config.Config,
	issuer *token.LocalIssuer,
	policy *TrustPolicy,
) *OAuthService {
	return &OAuthService{
		store:  s,
		config: cfg,
		issuer: issuer,
		policy: policy,
	}
}

// CreateSession validates the project and origin and creates the
// OAuthSession handed to the websocket flow.
func (s *OAuthService) CreateSession(
	ctx context.Context,
	projectID, origin string,
) (*models.OAuthSession, error) {
	project, err := s.store.GetProjectByID(projectID)
	if err != nil || !project.IsActive {
		return nil, ErrInvalidProject
	}
	if err := s.policy.ValidateOrigin(origin, projectID); err != nil {
		return nil, err
	}

	notAfter := time.Now().Add(s.config.RefreshCookieMaxAge)
	session := &models.OAuthSession{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		RefreshedAt: time.Now(),
		NotAfter:    &notAfter,
	}
	if err := s.store.DB().Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create oauth session: %w", err)
	}
	return session, nil
}

// CreateAuthCode generates a single-use authorization code bound to a
// user, project and PKCE challenge. Returns the plaintext code; only its
// hash is stored.
func (s *OAuthService) CreateAuthCode(
	ctx context.Context,
	userID, projectID, codeChallenge string,
) (string, error) {
	plainCode, err := util.RandomToken(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate authorization code: %w", err)
	}

	record := &models.AuthCode{
		CodeHash:      util.SHA256Hex(plainCode),
		UserID:        userID,
		ProjectID:     projectID,
		CodeChallenge: codeChallenge,
	}
	if err := s.store.CreateAuthCode(record); err != nil {
		return "", fmt.Errorf("failed to save authorization code: %w", err)
	}

	if err := s.policy.TouchSignIn(ctx, userID, projectID); err != nil {
		// Code issuance already succeeded; only the bookkeeping failed.
		log.Printf("[OAuth] failed to touch last_sign_in for user %s: %v", userID, err)
	}

	return plainCode, nil
}

// RedeemCode consumes an authorization code and verifies its PKCE
// challenge. The row is deleted before the identity is returned, so a
// code can never be redeemed twice even when token issuance later fails.
func (s *OAuthService) RedeemCode(
	ctx context.Context,
	plainCode, codeVerifier string,
) (ownerID, projectID string, err error) {
	record, err := s.store.ConsumeAuthCode(util.SHA256Hex(plainCode))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) ||
			errors.Is(err, store.ErrAuthCodeAlreadyUsed) {
			return "", "", ErrCodeNotFound
		}
		return "", "", fmt.Errorf("failed to consume authorization code: %w", err)
	}

	if record.IsExpired(config.AuthCodeValidity) {
		return "", "", ErrCodeExpired
	}

	// PKCE S256 (RFC 7636 §4.6)
	if util.SHA256Base64URL(codeVerifier) != record.CodeChallenge {
		return "", "", ErrVerifierMismatch
	}

	return record.UserID, record.ProjectID, nil
}

// IssueTokens mints an access token and a fresh session with its first
// refresh token for the given user and project. The session row is
// created before the refresh token row that references it.
func (s *OAuthService) IssueTokens(
	ctx context.Context,
	ownerID, projectID string,
) (*TokenPair, error) {
	notAfter := time.Now().Add(s.config.RefreshCookieMaxAge)
	session := &models.OAuthSession{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		ProjectID:   projectID,
		RefreshedAt: time.Now(),
		NotAfter:    &notAfter,
	}

	plainRefresh, err := util.RandomToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshToken := &models.OAuthRefreshToken{
		TokenHash: util.SHA256Hex(plainRefresh),
	}

	if err := s.store.CreateOAuthSession(session, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to create oauth session: %w", err)
	}

	accessToken, err := s.issuer.IssueAccessToken(ctx, ownerID, session.ID, projectID)
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

// Rotate exchanges a refresh token for a new token pair. The presented
// token is retired in the same transaction that creates its successor;
// under concurrent rotation exactly one caller wins.
func (s *OAuthService) Rotate(
	ctx context.Context,
	plainRefresh string,
) (*TokenPair, error) {
	record, err := s.store.GetOAuthRefreshTokenByHash(util.SHA256Hex(plainRefresh))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	session := record.Session
	if session.ID == "" {
		// Token row survived its session; the session is gone for good.
		return nil, ErrSessionExpired
	}
	if session.IsExpired() {
		if err := s.store.DeleteOAuthSession(session.ID); err != nil {
			log.Printf("[OAuth] failed to delete expired session %s: %v", session.ID, err)
		}
		return nil, ErrSessionExpired
	}

	newPlain, err := util.RandomToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	newToken := &models.OAuthRefreshToken{
		TokenHash: util.SHA256Hex(newPlain),
		SessionID: session.ID,
	}
	if err := s.store.RotateOAuthRefreshToken(record.ID, newToken); err != nil {
		if errors.Is(err, store.ErrRefreshTokenRotated) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	accessToken, err := s.issuer.IssueAccessToken(ctx, session.UserID, session.ID, session.ProjectID)
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

// RevokeSession deletes the session; its refresh tokens go with it.
func (s *OAuthService) RevokeSession(ctx context.Context, sessionID string) error {
	return s.store.DeleteOAuthSession(sessionID)
}

// GetSession loads a session for the websocket flow. Expired sessions
// behave as missing.
func (s *OAuthService) GetSession(
	ctx context.Context,
	sessionID string,
) (*models.OAuthSession, error) {
	session, err := s.store.GetOAuthSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// CleanupExpiredCodes removes authorization codes past their validity
// window. Run periodically by the bootstrap jobs.
func (s *OAuthService) CleanupExpiredCodes(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredAuthCodes(config.AuthCodeValidity)
}
