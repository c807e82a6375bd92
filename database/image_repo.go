package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) *ImageRepo {
	return &ImageRepo{db}
}

// FindByFolder returns up to limit images of folder, newest first.
func (r *ImageRepo) FindByFolder(ctx context.Context, folder string, limit int) ([]models.Image, error) {
	images := []models.Image{}
	err := r.db.WithContext(ctx).
		Where("folder = ?", folder).
		Order("created_at DESC").
		Limit(limit).
		Find(&images).Error
	return images, translate(err)
}

func (r *ImageRepo) PublicIDs(ctx context.Context, folder string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Image{}).
		Where("folder = ?", folder).
		Pluck("public_id", &ids).Error
	return ids, translate(err)
}

func (r *ImageRepo) Add(ctx context.Context, image *models.Image) error {
	return translate(r.db.WithContext(ctx).Create(image).Error)
}

// Upsert inserts image or refreshes the row with the same public id.
func (r *ImageRepo) Upsert(ctx context.Context, image *models.Image) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "public_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"secure_url", "width", "height", "format", "bytes", "folder", "updated_at",
		}),
	}).Create(image).Error
	return translate(err)
}

func (r *ImageRepo) DeleteByPublicID(ctx context.Context, publicID string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Image{}, "public_id = ?", publicID))
}

func (r *ImageRepo) DeleteByPublicIDs(ctx context.Context, publicIDs []string) (int64, error) {
	if len(publicIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&models.Image{}, "public_id IN ?", publicIDs)
	return result.RowsAffected, translate(result.Error)
}
