package models

import (
	"time"

	"gorm.io/gorm"
)

type Skill struct {
	ID        string    `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_skills_name_category,priority:1"`
	Category  string    `json:"category" db:"category" gorm:"type:varchar(50);not null;uniqueIndex:idx_skills_name_category,priority:2"`
	Level     int       `json:"level" db:"level" gorm:"not null;check:chk_skills_level,level >= 1 AND level <= 5"`
	IconURL   *string   `json:"iconUrl,omitempty" db:"icon_url" gorm:"type:text"`
	Order     int       `json:"order" db:"sort_order" gorm:"column:sort_order;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (s *Skill) BeforeCreate(_ *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
