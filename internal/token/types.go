package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type constants
const (
	TokenTypeBearer = "Bearer"
)

// Audience carried by every access token this service signs. Resource
// servers check it to reject tokens minted for another purpose.
const AudienceAuthenticated = "authenticated"

// Result holds a freshly signed access token
type Result struct {
	TokenString string
	TokenType   string
	ExpiresAt   time.Time
	Claims      jwt.MapClaims
}

// ValidationResult holds the claims extracted from a verified token
type ValidationResult struct {
	Valid     bool
	UserID    string
	SessionID string
	ProjectID string
	ExpiresAt time.Time
	Claims    jwt.MapClaims
}
