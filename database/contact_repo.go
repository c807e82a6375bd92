package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

type ContactFilter struct {
	Read   *bool
	Search string
}

// FindAll returns one page of contacts, newest first.
func (r *ContactRepo) FindAll(ctx context.Context, filter ContactFilter, page Page) ([]models.Contact, int64, error) {
	contacts := []models.Contact{}
	total, err := list(r.db.WithContext(ctx), &models.Contact{}, &contacts, page, "created_at DESC",
		func(db *gorm.DB) *gorm.DB {
			if filter.Read != nil {
				return db.Where("read = ?", *filter.Read)
			}
			return db
		},
		search(filter.Search, "name", "email", "message"),
	)
	return contacts, total, err
}

// FindRecent returns the latest limit contacts.
func (r *ContactRepo) FindRecent(ctx context.Context, limit int) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&contacts).Error
	return contacts, translate(err)
}

func (r *ContactRepo) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

func (r *ContactRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contact{}).Count(&count).Error
	return count, translate(err)
}

func (r *ContactRepo) Add(ctx context.Context, contact *models.Contact) error {
	return translate(r.db.WithContext(ctx).Create(contact).Error)
}

// SetRead flips the only mutable field of a contact.
func (r *ContactRepo) SetRead(ctx context.Context, id string, read bool) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", id).
		Update("read", read))
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id))
}
