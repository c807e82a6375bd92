package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/databasetest"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(title string, technologies ...string) *models.Project {
	return &models.Project{
		Title:        title,
		Description:  "A project called " + title,
		ImageURL:     "https://example.com/" + models.Slugify(title) + ".png",
		Technologies: technologies,
	}
}

func TestNewPagination(t *testing.T) {
	p := database.NewPagination(database.NewPage(2, 10), 25)
	assert.Equal(t, database.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}, p)

	empty := database.NewPagination(database.NewPage(1, 10), 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewPageDefaults(t *testing.T) {
	assert.Equal(t, database.Page{Number: 1, Limit: 10}, database.NewPage(0, -3))
	assert.Equal(t, database.Page{Number: 4, Limit: database.MaxLimit}, database.NewPage(4, 1000))
	assert.Equal(t, 30, database.NewPage(4, 10).Offset())
}

func TestProjectSlugUniqueness(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New(t)
	repo := store.ProjectRepo()

	require.NoError(t, repo.Add(ctx, newProject("My App", "go")))

	err := repo.Add(ctx, newProject("My App", "rust"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUniqueConstraintViolation))

	taken, err := repo.SlugTaken(ctx, "my-app", "")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestProjectFindAllFiltersAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ProjectRepo()

	featured := newProject("Portfolio Site", "Next.js", "TypeScript")
	featured.Featured = true
	require.NoError(t, repo.Add(ctx, featured))
	require.NoError(t, repo.Add(ctx, newProject("Task Manager", "React", "MongoDB")))
	require.NoError(t, repo.Add(ctx, newProject("CLI Tool", "Go")))

	yes := true
	projects, total, err := repo.FindAll(ctx, database.ProjectFilter{Featured: &yes}, database.NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "portfolio-site", projects[0].Slug)

	projects, total, err = repo.FindAll(ctx, database.ProjectFilter{Search: "mongodb"}, database.NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Task Manager", projects[0].Title)

	projects, total, err = repo.FindAll(ctx, database.ProjectFilter{Search: "TASK"}, database.NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, projects, 1)

	_, total, err = repo.FindAll(ctx, database.ProjectFilter{Search: "100%"}, database.NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestProjectPagination(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ProjectRepo()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Add(ctx, newProject(fmt.Sprintf("Project %d", i), "go")))
	}

	projects, total, err := repo.FindAll(ctx, database.ProjectFilter{}, database.NewPage(3, 3))
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Len(t, projects, 1)
}

func TestProjectUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ProjectRepo()

	project := newProject("Old", "go")
	require.NoError(t, repo.Add(ctx, project))

	project.Title = "New"
	project.Featured = false
	project.Link = nil
	require.NoError(t, repo.Update(ctx, project))

	stored, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Title)

	require.NoError(t, repo.Delete(ctx, project.ID))
	_, err = repo.FindByID(ctx, project.ID)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	assert.True(t, database.IsNotFound(repo.Delete(ctx, project.ID)))
}

func TestProjectUpsertBySlugKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ProjectRepo()

	first := newProject("Upserted", "go")
	first.Slug = "upserted"
	require.NoError(t, repo.UpsertBySlug(ctx, first))

	second := newProject("Upserted Again", "rust")
	second.Slug = "upserted"
	require.NoError(t, repo.UpsertBySlug(ctx, second))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	stored, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Upserted Again", stored.Title)
	assert.Equal(t, []string{"rust"}, []string(stored.Technologies))
}

func TestSkillNameCategoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).SkillRepo()

	require.NoError(t, repo.Add(ctx, &models.Skill{Name: "Go", Category: "Backend", Level: 5}))
	require.NoError(t, repo.Add(ctx, &models.Skill{Name: "Go", Category: "Tooling", Level: 3}))

	err := repo.Add(ctx, &models.Skill{Name: "Go", Category: "Backend", Level: 4})
	assert.True(t, errors.Is(err, errs.ErrUniqueConstraintViolation))

	exists, err := repo.Exists(ctx, "Go", "Backend", "")
	require.NoError(t, err)
	assert.True(t, exists)

	counts, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []database.CategoryCount{{Category: "Backend", Count: 1}, {Category: "Tooling", Count: 1}}, counts)
}

func TestSkillOrdering(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).SkillRepo()

	require.NoError(t, repo.Add(ctx, &models.Skill{Name: "Zig", Category: "Lang", Level: 2, Order: 1}))
	require.NoError(t, repo.Add(ctx, &models.Skill{Name: "Ada", Category: "Lang", Level: 2, Order: 1}))
	require.NoError(t, repo.Add(ctx, &models.Skill{Name: "Go", Category: "Lang", Level: 5, Order: 0}))

	skills, _, err := repo.FindAll(ctx, database.SkillFilter{Category: "Lang"}, database.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, skills, 3)
	assert.Equal(t, []string{"Go", "Ada", "Zig"}, []string{skills[0].Name, skills[1].Name, skills[2].Name})
}

func TestProfileGetMaterializesOnce(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ProfileRepo()

	first, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileID, first.ID)

	second, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestProfileUpsertKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ProfileRepo()

	for _, name := range []string{"A", "B", "C"} {
		profile := models.DefaultProfile()
		profile.Name = name
		require.NoError(t, repo.Upsert(ctx, &profile))
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	stored, err := repo.Find(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C", stored.Name)
}

func TestSettingsDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).SettingsRepo()

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.AnalyticsEnabled)
	assert.Equal(t, models.ThemeDark, settings.Theme)

	settings.AnalyticsEnabled = false
	settings.MaintenanceMode = true
	require.NoError(t, repo.Save(ctx, settings))

	reloaded, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded.AnalyticsEnabled)
	assert.True(t, reloaded.MaintenanceMode)
}

func TestSettingsConcurrentFirstReadsConverge(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)

	const readers = 8
	results := make(chan error, readers)
	for i := 0; i < readers; i++ {
		go func() {
			_, err := db.SettingsRepo().Get(ctx)
			results <- err
		}()
	}
	for i := 0; i < readers; i++ {
		require.NoError(t, <-results)
	}

	var count int64
	require.NoError(t, db.DB().Model(&models.Settings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// an existing row is returned untouched
	settings, err := db.SettingsRepo().Get(ctx)
	require.NoError(t, err)
	settings.Theme = models.ThemeLight
	require.NoError(t, db.SettingsRepo().Save(ctx, settings))
	again, err := db.SettingsRepo().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, again.Theme)
}

func TestContactReadFilterAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ContactRepo()

	older := &models.Contact{Name: "Old", Email: "old@example.com", Message: "first message", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Contact{Name: "New", Email: "new@example.com", Message: "second message"}
	require.NoError(t, repo.Add(ctx, older))
	require.NoError(t, repo.Add(ctx, newer))
	require.NoError(t, repo.SetRead(ctx, older.ID, true))

	contacts, total, err := repo.FindAll(ctx, database.ContactFilter{}, database.NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, newer.ID, contacts[0].ID)

	no := false
	contacts, _, err = repo.FindAll(ctx, database.ContactFilter{Read: &no}, database.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "New", contacts[0].Name)

	assert.True(t, errors.Is(repo.SetRead(ctx, "missing", true), errs.ErrNotFound))
}

func TestExperienceReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New(t)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.ExperienceRepo().Add(ctx, &models.Experience{Company: "Old", Role: "R", Description: "d", StartDate: start}))

	err := store.Transaction(ctx, func(tx database.Database) error {
		return tx.ExperienceRepo().ReplaceAll(ctx, []models.Experience{
			{Company: "A", Role: "R", Description: "d", StartDate: start, Current: true},
			{Company: "B", Role: "R", Description: "d", StartDate: start.AddDate(-2, 0, 0)},
		})
	})
	require.NoError(t, err)

	count, err := store.ExperienceRepo().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	yes := true
	current, _, err := store.ExperienceRepo().FindAll(ctx, database.ExperienceFilter{Current: &yes}, database.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "A", current[0].Company)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New(t)

	err := store.Transaction(ctx, func(tx database.Database) error {
		if err := tx.ProjectRepo().Add(ctx, newProject("Rolled Back", "go")); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	count, err := store.ProjectRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImageRepoMirrorOperations(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).ImageRepo()

	require.NoError(t, repo.Add(ctx, &models.Image{PublicID: "portfolio/a", SecureURL: "https://cdn/a", Format: "png", Folder: "portfolio"}))
	require.NoError(t, repo.Upsert(ctx, &models.Image{PublicID: "portfolio/a", SecureURL: "https://cdn/a2", Format: "png", Folder: "portfolio"}))
	require.NoError(t, repo.Upsert(ctx, &models.Image{PublicID: "portfolio/b", SecureURL: "https://cdn/b", Format: "jpg", Folder: "portfolio"}))

	ids, err := repo.PublicIDs(ctx, "portfolio")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"portfolio/a", "portfolio/b"}, ids)

	images, err := repo.FindByFolder(ctx, "portfolio", 1)
	require.NoError(t, err)
	assert.Len(t, images, 1)

	removed, err := repo.DeleteByPublicIDs(ctx, []string{"portfolio/a"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.True(t, errors.Is(repo.DeleteByPublicID(ctx, "portfolio/a"), errs.ErrNotFound))
}

func TestUserEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := databasetest.New(t).UserRepo()

	require.NoError(t, repo.Add(ctx, &models.User{Email: "admin@example.com", Password: "hash"}))
	err := repo.Add(ctx, &models.User{Email: "admin@example.com", Password: "hash"})
	assert.True(t, errors.Is(err, errs.ErrUniqueConstraintViolation))

	user, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}
