package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

type SkillFilter struct {
	Category string
	Search   string
}

// CategoryCount is one row of the skill distribution.
type CategoryCount struct {
	Category string
	Count    int64
}

func (r *SkillRepo) FindAll(ctx context.Context, filter SkillFilter, page Page) ([]models.Skill, int64, error) {
	skills := []models.Skill{}
	total, err := list(r.db.WithContext(ctx), &models.Skill{}, &skills, page, "sort_order ASC, name ASC",
		func(db *gorm.DB) *gorm.DB {
			if filter.Category != "" {
				return db.Where("category = ?", filter.Category)
			}
			return db
		},
		search(filter.Search, "name", "category"),
	)
	return skills, total, err
}

func (r *SkillRepo) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &skill, nil
}

// Exists reports whether a skill other than excludeID holds the (name, category) pair.
func (r *SkillRepo) Exists(ctx context.Context, name, category, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Skill{}).
		Where("name = ? AND category = ?", name, category)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *SkillRepo) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	rows := []CategoryCount{}
	err := r.db.WithContext(ctx).Model(&models.Skill{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (r *SkillRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Skill{}).Count(&count).Error
	return count, translate(err)
}

func (r *SkillRepo) Add(ctx context.Context, skill *models.Skill) error {
	return translate(r.db.WithContext(ctx).Create(skill).Error)
}

func (r *SkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	return affected(r.db.WithContext(ctx).Model(skill).Select("*").Omit("created_at").Updates(skill))
}

// UpsertByNameCategory inserts skill or refreshes the skill keyed by the same (name, category).
func (r *SkillRepo) UpsertByNameCategory(ctx context.Context, skill *models.Skill) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "icon_url", "sort_order", "updated_at"}),
	}).Create(skill).Error
	return translate(err)
}

func (r *SkillRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Skill{}, "id = ?", id))
}
