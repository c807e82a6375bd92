package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	projectRepo    *ProjectRepo
	skillRepo      *SkillRepo
	experienceRepo *ExperienceRepo
	profileRepo    *ProfileRepo
	settingsRepo   *SettingsRepo
	contactRepo    *ContactRepo
	imageRepo      *ImageRepo
	userRepo       *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		projectRepo:    NewProjectRepo(db),
		skillRepo:      NewSkillRepo(db),
		experienceRepo: NewExperienceRepo(db),
		profileRepo:    NewProfileRepo(db),
		settingsRepo:   NewSettingsRepo(db),
		contactRepo:    NewContactRepo(db),
		imageRepo:      NewImageRepo(db),
		userRepo:       NewUserRepo(db),
	}
}

// Transaction runs fn against repositories bound to a single transaction.
// The transaction is rolled back when fn returns an error or panics.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks the underlying connection pool.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return translate(sqlDB.PingContext(ctx))
}

// Close releases the connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d Database) DB() *gorm.DB {
	return d.db
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) ImageRepo() *ImageRepo {
	return d.imageRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}
