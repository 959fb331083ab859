package models

import (
	"time"
)

type User struct {
	ID       string `gorm:"primaryKey;size:36"`
	Email    string `gorm:"uniqueIndex;not null"` // Email is unique and required
	FullName string // User full name

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
