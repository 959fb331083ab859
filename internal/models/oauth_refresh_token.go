package models

import "time"

// OAuthRefreshToken is one generation of a session's rotating refresh
// token. Rotation inserts the successor before deleting the predecessor,
// so the session always has at least one live token.
type OAuthRefreshToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	TokenHash string `gorm:"uniqueIndex;not null"`   // SHA256(plainToken)
	SessionID string `gorm:"not null;index;size:36"` // FK → OAuthSession.ID

	Session OAuthSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

func (OAuthRefreshToken) TableName() string {
	return "oauth_refresh_tokens"
}
