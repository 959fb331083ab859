package models

import "time"

// OAuthSession groups the refresh tokens issued to one project on behalf
// of one user. Revoking the session cascades to its refresh tokens.
type OAuthSession struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"not null;index;size:36"` // FK → User.ID
	ProjectID string `gorm:"not null;index;size:36"` // FK → Project.ID

	CreatedAt   time.Time
	RefreshedAt time.Time  // Last successful rotation
	NotAfter    *time.Time // Hard expiry; nil means the session never expires
}

func (s *OAuthSession) IsExpired() bool {
	return s.NotAfter != nil && time.Now().After(*s.NotAfter)
}

func (OAuthSession) TableName() string {
	return "oauth_sessions"
}
