package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact is a message submitted through the public contact form. Only Read changes after creation.
type Contact struct {
	ID        string    `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" db:"email" gorm:"type:varchar(200);not null"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null"`
	Read      bool      `json:"read" db:"read" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (c *Contact) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
