package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalIssuer generates and validates JWT access tokens with a shared
// HMAC secret. Refresh tokens are opaque and handled by the store, so
// the issuer only deals with access tokens.
type LocalIssuer struct {
	config *config.Config
}

// NewLocalIssuer creates a new local token issuer
func NewLocalIssuer(cfg *config.Config) *LocalIssuer {
	return &LocalIssuer{config: cfg}
}

// IssueAccessToken creates a signed JWT for the given user and session.
// projectID is empty for first-party platform sessions.
func (p *LocalIssuer) IssueAccessToken(
	ctx context.Context,
	userID, sessionID, projectID string,
) (*Result, error) {
	expiresAt := time.Now().Add(p.config.JWTExpiration)
	claims := jwt.MapClaims{
		"sub":        userID,
		"aud":        AudienceAuthenticated,
		"role":       AudienceAuthenticated,
		"session_id": sessionID,
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
		"iss":        p.config.BaseURL,
		"jti":        uuid.New().String(),
	}
	if projectID != "" {
		claims["project_id"] = projectID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &Result{
		TokenString: tokenString,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
		Claims:      claims,
	}, nil
}

// ValidateAccessToken verifies a JWT and extracts its claims
func (p *LocalIssuer) ValidateAccessToken(
	ctx context.Context,
	tokenString string,
) (*ValidationResult, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(p.config.JWTSecret), nil
	}, jwt.WithAudience(AudienceAuthenticated))
	if err != nil {
		// Check if it's an expiration error
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["sub"].(string)
	sessionID, _ := claims["session_id"].(string)
	projectID, _ := claims["project_id"].(string)

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	expiresAt := time.Unix(int64(exp), 0)

	return &ValidationResult{
		Valid:     true,
		UserID:    userID,
		SessionID: sessionID,
		ProjectID: projectID,
		ExpiresAt: expiresAt,
		Claims:    claims,
	}, nil
}

// Name returns issuer name for logging
func (p *LocalIssuer) Name() string {
	return "local"
}
