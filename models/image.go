package models

import (
	"time"

	"gorm.io/gorm"
)

// Image mirrors an asset held by the object store.
type Image struct {
	ID        string    `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	PublicID  string    `json:"publicId" db:"public_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_images_public_id"`
	SecureURL string    `json:"secureUrl" db:"secure_url" gorm:"type:text;not null"`
	Width     int       `json:"width" db:"width" gorm:"not null"`
	Height    int       `json:"height" db:"height" gorm:"not null"`
	Format    string    `json:"format" db:"format" gorm:"type:varchar(20);not null"`
	Bytes     int64     `json:"bytes" db:"bytes" gorm:"not null"`
	Folder    string    `json:"folder" db:"folder" gorm:"type:varchar(100);not null;index"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (i *Image) BeforeCreate(_ *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
