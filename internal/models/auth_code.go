package models

import "time"

// AuthCode stores OAuth 2.0 authorization codes (RFC 6749).
// Codes are short-lived and single-use: redemption deletes the row,
// so a surviving row is the only proof a code is still redeemable.
type AuthCode struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	// Code storage: SHA256 hash only, the plaintext never touches the DB
	CodeHash string `gorm:"uniqueIndex;not null"` // SHA256(plainCode)

	UserID    string `gorm:"not null;index;size:36"` // FK → User.ID
	ProjectID string `gorm:"not null;index;size:36"` // FK → Project.ID

	// PKCE (RFC 7636), S256 only
	CodeChallenge string `gorm:"not null"`

	CreatedAt time.Time
}

// IsExpired reports whether the code is older than the given validity window.
func (a *AuthCode) IsExpired(validity time.Duration) bool {
	return time.Now().After(a.CreatedAt.Add(validity))
}

func (AuthCode) TableName() string {
	return "auth_codes"
}
