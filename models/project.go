package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a portfolio entry addressed publicly by its slug.
type Project struct {
	ID           string                      `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	Title        string                      `json:"title" db:"title" gorm:"type:varchar(100);not null"`
	Slug         string                      `json:"slug" db:"slug" gorm:"type:varchar(100);not null;uniqueIndex:idx_projects_slug"`
	Description  string                      `json:"description" db:"description" gorm:"type:text;not null"`
	ImageURL     string                      `json:"imageUrl" db:"image_url" gorm:"type:text;not null"`
	Link         *string                     `json:"link,omitempty" db:"link" gorm:"type:text"`
	GithubURL    *string                     `json:"githubUrl,omitempty" db:"github_url" gorm:"type:text"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"not null"`
	Featured     bool                        `json:"featured" db:"featured" gorm:"not null;index"`
	CreatedAt    time.Time                   `json:"createdAt" db:"created_at" gorm:"index"`
	UpdatedAt    time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (p *Project) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return nil
}

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, collapses every non-alphanumeric run into "-" and trims dashes at both ends.
func Slugify(title string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
