package models

import (
	"time"

	"gorm.io/gorm"
)

type Experience struct {
	ID          string     `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	Company     string     `json:"company" db:"company" gorm:"type:varchar(100);not null"`
	Role        string     `json:"role" db:"role" gorm:"type:varchar(100);not null"`
	StartDate   time.Time  `json:"startDate" db:"start_date" gorm:"not null"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	Description string     `json:"description" db:"description" gorm:"type:text;not null"`
	Current     bool       `json:"current" db:"is_current" gorm:"column:is_current;not null"`
	Order       int        `json:"order" db:"sort_order" gorm:"column:sort_order;not null"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

func (e *Experience) BeforeCreate(_ *gorm.DB) error {
	assignID(&e.ID)
	return nil
}
