package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Orientation identifies which way the subject is facing in a frame.
type Orientation string

const (
	OrientationCenter Orientation = "CENTER"
	OrientationRight  Orientation = "RIGHT"
	OrientationLeft   Orientation = "LEFT"
)

// EnrollmentSequence is the fixed order of poses captured during registration.
var EnrollmentSequence = []Orientation{OrientationCenter, OrientationRight, OrientationLeft}

// Vector is a face embedding stored as a JSON array in the database.
type Vector []float32

// Scan implements sql.Scanner interface
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSON value")
	}
	return json.Unmarshal(bytes, v)
}

// Value implements driver.Valuer interface
func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return json.Marshal([]float32{})
	}
	return json.Marshal(v)
}

// Face stores one enrolled identity: an embedding per captured pose.
// There is at most one Face record per user.
type Face struct {
	ID     string `gorm:"primaryKey;size:36"`
	UserID string `gorm:"uniqueIndex;size:36;not null"` // FK → User.ID

	CenterEmbedding Vector `gorm:"type:json;not null"`
	RightEmbedding  Vector `gorm:"type:json;not null"`
	LeftEmbedding   Vector `gorm:"type:json;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Embedding returns the stored embedding for the given pose.
func (f *Face) Embedding(o Orientation) Vector {
	switch o {
	case OrientationRight:
		return f.RightEmbedding
	case OrientationLeft:
		return f.LeftEmbedding
	default:
		return f.CenterEmbedding
	}
}

func (Face) TableName() string {
	return "faces"
}
