package models

import "time"

// TrustedOrigin is a web origin a project is allowed to start OAuth
// flows from. Origins are stored normalized (lowercase, no trailing
// slash) and matched by exact string comparison.
type TrustedOrigin struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ProjectID string `gorm:"not null;uniqueIndex:idx_project_origin;size:36"` // FK → Project.ID
	Origin    string `gorm:"not null;uniqueIndex:idx_project_origin"`

	CreatedAt time.Time
}

func (TrustedOrigin) TableName() string {
	return "trusted_origins"
}
