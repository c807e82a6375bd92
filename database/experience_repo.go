package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

type ExperienceFilter struct {
	Current *bool
	Search  string
}

func (r *ExperienceRepo) FindAll(ctx context.Context, filter ExperienceFilter, page Page) ([]models.Experience, int64, error) {
	experiences := []models.Experience{}
	total, err := list(r.db.WithContext(ctx), &models.Experience{}, &experiences, page, "sort_order ASC, start_date DESC",
		func(db *gorm.DB) *gorm.DB {
			if filter.Current != nil {
				return db.Where("is_current = ?", *filter.Current)
			}
			return db
		},
		search(filter.Search, "company", "role", "description"),
	)
	return experiences, total, err
}

// FindTimeline returns every experience, latest start first.
func (r *ExperienceRepo) FindTimeline(ctx context.Context) ([]models.Experience, error) {
	experiences := []models.Experience{}
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&experiences).Error
	return experiences, translate(err)
}

func (r *ExperienceRepo) FindByID(ctx context.Context, id string) (*models.Experience, error) {
	var experience models.Experience
	if err := r.db.WithContext(ctx).First(&experience, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &experience, nil
}

func (r *ExperienceRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Experience{}).Count(&count).Error
	return count, translate(err)
}

func (r *ExperienceRepo) Add(ctx context.Context, experience *models.Experience) error {
	return translate(r.db.WithContext(ctx).Create(experience).Error)
}

func (r *ExperienceRepo) Update(ctx context.Context, experience *models.Experience) error {
	return affected(r.db.WithContext(ctx).Model(experience).Select("*").Omit("created_at").Updates(experience))
}

// ReplaceAll deletes every experience and inserts the given ones. Call it inside a transaction.
func (r *ExperienceRepo) ReplaceAll(ctx context.Context, experiences []models.Experience) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("1 = 1").Delete(&models.Experience{}).Error; err != nil {
		return translate(err)
	}
	if len(experiences) == 0 {
		return nil
	}
	return translate(db.Create(&experiences).Error)
}

func (r *ExperienceRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Experience{}, "id = ?", id))
}
