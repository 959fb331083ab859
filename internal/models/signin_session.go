package models

import "time"

// SignInSession is a first-party session on the platform itself, as
// opposed to an OAuthSession issued on behalf of a project.
type SignInSession struct {
	ID     string `gorm:"primaryKey;size:36"`
	UserID string `gorm:"not null;index;size:36"` // FK → User.ID

	CreatedAt   time.Time
	RefreshedAt time.Time
	NotAfter    *time.Time
}

func (s *SignInSession) IsExpired() bool {
	return s.NotAfter != nil && time.Now().After(*s.NotAfter)
}

func (SignInSession) TableName() string {
	return "signin_sessions"
}

// SignInRefreshToken rotates the same way OAuthRefreshToken does.
type SignInRefreshToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	TokenHash string `gorm:"uniqueIndex;not null"`
	SessionID string `gorm:"not null;index;size:36"` // FK → SignInSession.ID

	Session SignInSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

func (SignInRefreshToken) TableName() string {
	return "signin_refresh_tokens"
}
