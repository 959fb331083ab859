package models

import (
	"encoding/base32"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// Base32 characters, but lowercased.
const lowerBase32Chars = "abcdefghijklmnopqrstuvwxyz234567"

// base32 encoder that uses lowered characters without padding.
var base32Lower = base32.NewEncoding(lowerBase32Chars).WithPadding(base32.NoPadding)

// Project is a relying application that delegates sign-in to this service.
type Project struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	APIKeyHash  string `gorm:"not null"` // bcrypt hashed API key

	// OAuth settings
	RedirectURL string `gorm:"not null"` // Where the browser is sent after consent

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	TrustedOrigins []TrustedOrigin `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// GenerateAPIKey generates a fresh API key, returns the plaintext and
// saves the bcrypt hash on the model.
func (p *Project) GenerateAPIKey() (string, error) {
	rBytes, err := util.CryptoRandomBytes(32)
	if err != nil {
		return "", err
	}
	// Add a prefix to the base32, this is in order to make it easier
	// for code scanners to grab sensitive tokens.
	apiKey := "avk_" + base32Lower.EncodeToString(rBytes)

	hashedKey, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	p.APIKeyHash = string(hashedKey)
	return apiKey, nil
}

// ValidateAPIKey validates the given key against the hash saved in database
func (p *Project) ValidateAPIKey(key []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.APIKeyHash), key) == nil
}

func (Project) TableName() string {
	return "projects"
}
