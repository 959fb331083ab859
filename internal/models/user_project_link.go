package models

import "time"

// UserProjectLink records a user's consent grant to a project. The row's
// existence is the consent: revoking consent deletes the link.
type UserProjectLink struct {
	UserID    string `gorm:"primaryKey;size:36"` // FK → User.ID
	ProjectID string `gorm:"primaryKey;size:36"` // FK → Project.ID

	LastSignIn *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserProjectLink) TableName() string {
	return "user_project_links"
}
