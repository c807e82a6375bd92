package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

type ProjectFilter struct {
	Featured *bool
	Search   string
}

// FindAll returns one page of projects, newest first, plus the total number of matches.
func (r *ProjectRepo) FindAll(ctx context.Context, filter ProjectFilter, page Page) ([]models.Project, int64, error) {
	projects := []models.Project{}
	total, err := list(r.db.WithContext(ctx), &models.Project{}, &projects, page, "created_at DESC",
		func(db *gorm.DB) *gorm.DB {
			if filter.Featured != nil {
				return db.Where("featured = ?", *filter.Featured)
			}
			return db
		},
		search(filter.Search, "title", "description", "CAST(technologies AS TEXT)"),
	)
	return projects, total, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// SlugTaken reports whether another project already uses slug. excludeID may be empty.
func (r *ProjectRepo) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// FindFeatured returns up to limit featured projects in insertion order.
func (r *ProjectRepo) FindFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Find(&projects).Error
	return projects, translate(err)
}

// FindRecent returns every project, newest first.
func (r *ProjectRepo) FindRecent(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, translate(err)
}

// FindSitemapEntries returns slug and updated_at for every project, most recently updated first.
func (r *ProjectRepo) FindSitemapEntries(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Select("slug", "updated_at").
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, translate(err)
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, translate(err)
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(project).Error)
}

// Update writes every column of project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return affected(r.db.WithContext(ctx).Model(project).Select("*").Omit("created_at").Updates(project))
}

// UpsertBySlug inserts project or overwrites the content of the project holding the same slug.
func (r *ProjectRepo) UpsertBySlug(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "image_url", "link", "github_url", "technologies", "featured", "updated_at",
		}),
	}).Create(project).Error
	return translate(err)
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id))
}

// IsNotFound is a convenience for callers that only hold a repo.
func IsNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}
