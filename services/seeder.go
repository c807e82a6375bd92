package services

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
)

type SeedReport struct {
	Projects    int `json:"projects"`
	Skills      int `json:"skills"`
	Experiences int `json:"experiences"`
}

type Seeder struct {
	db     database.Database
	logger zerolog.Logger
}

func NewSeeder(db database.Database, logger zerolog.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Seed writes the starter content in one transaction. Running it again converges on the same
// rows: projects are keyed by slug, skills by (name, category) and experiences are replaced.
func (s *Seeder) Seed(ctx context.Context) (SeedReport, error) {
	var report SeedReport
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		profile := models.DefaultProfile()
		if err := tx.ProfileRepo().Upsert(ctx, &profile); err != nil {
			return err
		}

		for _, skill := range seedSkills() {
			if err := tx.SkillRepo().UpsertByNameCategory(ctx, &skill); err != nil {
				return err
			}
			report.Skills++
		}

		for _, project := range seedProjects() {
			if err := tx.ProjectRepo().UpsertBySlug(ctx, &project); err != nil {
				return err
			}
			report.Projects++
		}

		experiences := seedExperiences()
		if err := tx.ExperienceRepo().ReplaceAll(ctx, experiences); err != nil {
			return err
		}
		report.Experiences = len(experiences)
		return nil
	})
	if err != nil {
		return SeedReport{}, errs.NewDatabaseError("seed", "content", err)
	}

	s.logger.Info().
		Int("projects", report.Projects).
		Int("skills", report.Skills).
		Int("experiences", report.Experiences).
		Msg("Seed data created successfully")
	return report, nil
}

func seedProjects() []models.Project {
	return []models.Project{
		{
			Title:        "E-Commerce Platform",
			Slug:         "ecommerce-platform",
			Description:  "A full-stack e-commerce platform built with Next.js and Node.js",
			ImageURL:     "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d",
			Link:         strPtr("https://ecommerce-demo.com"),
			GithubURL:    strPtr("https://github.com/user/ecommerce"),
			Technologies: []string{"Next.js", "TypeScript", "PostgreSQL", "Prisma"},
			Featured:     true,
		},
		{
			Title:        "Task Management App",
			Slug:         "task-management-app",
			Description:  "A collaborative task management application with real-time updates",
			ImageURL:     "https://images.unsplash.com/photo-1611224923853-80b023f02d71",
			Link:         strPtr("https://taskapp-demo.com"),
			GithubURL:    strPtr("https://github.com/user/taskapp"),
			Technologies: []string{"React", "Node.js", "Socket.io", "MongoDB"},
			Featured:     false,
		},
	}
}

func seedSkills() []models.Skill {
	return []models.Skill{
		{Name: "JavaScript", Category: "Frontend", Level: 5, Order: 1},
		{Name: "TypeScript", Category: "Frontend", Level: 5, Order: 2},
		{Name: "React", Category: "Frontend", Level: 5, Order: 3},
		{Name: "Next.js", Category: "Frontend", Level: 4, Order: 4},
		{Name: "Node.js", Category: "Backend", Level: 4, Order: 5},
		{Name: "PostgreSQL", Category: "Database", Level: 4, Order: 6},
		{Name: "Prisma", Category: "Database", Level: 4, Order: 7},
	}
}

func seedExperiences() []models.Experience {
	endDate := date(2024, time.January, 1)
	return []models.Experience{
		{
			Company:     "Tech Corp",
			Role:        "Senior Full Stack Developer",
			StartDate:   date(2022, time.January, 1),
			EndDate:     &endDate,
			Description: "Led development of multiple web applications using React and Node.js",
			Order:       1,
		},
		{
			Company:     "StartupXYZ",
			Role:        "Lead Developer",
			StartDate:   date(2024, time.January, 1),
			Description: "Building scalable web applications and mentoring junior developers",
			Current:     true,
			Order:       2,
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
