package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an admin account. Password holds a bcrypt hash.
type User struct {
	ID        string    `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	Email     string    `json:"email" db:"email" gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	Password  string    `json:"-" db:"password" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
