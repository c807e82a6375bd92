package database

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepo manages the single profile row.
type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// Find returns the stored profile or errs.ErrNotFound.
func (r *ProfileRepo) Find(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", models.ProfileID).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// Get returns the profile, materializing models.DefaultProfile when none exists yet.
// Concurrent first reads converge on a single row.
func (r *ProfileRepo) Get(ctx context.Context) (*models.Profile, error) {
	profile, err := r.Find(ctx)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	defaults := models.DefaultProfile()
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.Find(ctx)
}

// Upsert writes profile into the singleton row, creating it when missing.
func (r *ProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	profile.ID = models.ProfileID
	profile.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "title", "bio", "email", "phone", "location",
			"website", "github", "linkedin", "twitter", "profile_image", "updated_at",
		}),
	}).Create(profile).Error
	return translate(err)
}

func (r *ProfileRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&count).Error
	return count, translate(err)
}
