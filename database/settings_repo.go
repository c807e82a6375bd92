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

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

func (r *SettingsRepo) find(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

// Get returns the settings row, creating it with models.DefaultSettings on first access.
// Concurrent first reads converge on a single row.
func (r *SettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := r.find(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	defaults := models.DefaultSettings()
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.find(ctx)
}

func (r *SettingsRepo) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"maintenance_mode", "analytics_enabled", "email_notifications", "theme", "updated_at",
		}),
	}).Create(settings).Error
	return translate(err)
}
