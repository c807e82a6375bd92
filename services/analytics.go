package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"golang.org/x/sync/errgroup"
)

const (
	featuredProjectsLimit = 5
	recentContactsLimit   = 30
)

type Analytics struct {
	ContentStats       ContentStats     `json:"contentStats"`
	SkillDistribution  []SkillShare     `json:"skillDistribution"`
	ContactAnalytics   ContactAnalytics `json:"contactAnalytics"`
	ExperienceTimeline []TimelineEntry  `json:"experienceTimeline"`
	Projects           []ProjectDigest  `json:"projects"`
}

type ContentStats struct {
	TotalProjects    int64 `json:"totalProjects"`
	TotalSkills      int64 `json:"totalSkills"`
	TotalExperience  int64 `json:"totalExperience"`
	FeaturedProjects int   `json:"featuredProjects"`
}

type SkillShare struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

type ContactAnalytics struct {
	TotalContacts  int64 `json:"totalContacts"`
	UnreadContacts int   `json:"unreadContacts"`
	RecentContacts int   `json:"recentContacts"`
}

type TimelineEntry struct {
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Current   bool       `json:"current"`
	Duration  string     `json:"duration"`
}

type ProjectDigest struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
}

type AnalyticsService struct {
	db  database.Database
	now func() time.Time
}

func NewAnalyticsService(db database.Database) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

// Compute runs every read concurrently. The reads are independent, so the first failure
// cancels the rest.
func (s *AnalyticsService) Compute(ctx context.Context) (*Analytics, error) {
	var (
		out           Analytics
		totalContacts int64
		featured      []models.Project
		projects      []models.Project
		categories    []database.CategoryCount
		contacts      []models.Contact
		experiences   []models.Experience
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.ContentStats.TotalProjects, err = s.db.ProjectRepo().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ContentStats.TotalSkills, err = s.db.SkillRepo().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ContentStats.TotalExperience, err = s.db.ExperienceRepo().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		totalContacts, err = s.db.ContactRepo().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		featured, err = s.db.ProjectRepo().FindFeatured(gctx, featuredProjectsLimit)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.db.ProjectRepo().FindRecent(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.db.SkillRepo().CountByCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		contacts, err = s.db.ContactRepo().FindRecent(gctx, recentContactsLimit)
		return err
	})
	g.Go(func() (err error) {
		experiences, err = s.db.ExperienceRepo().FindTimeline(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("fetch", "analytics", err)
	}

	out.ContentStats.FeaturedProjects = len(featured)
	out.SkillDistribution = skillDistribution(categories)

	out.ContactAnalytics = ContactAnalytics{TotalContacts: totalContacts, RecentContacts: len(contacts)}
	for _, c := range contacts {
		if !c.Read {
			out.ContactAnalytics.UnreadContacts++
		}
	}

	now := s.now()
	out.ExperienceTimeline = make([]TimelineEntry, len(experiences))
	for i, e := range experiences {
		end := now
		if !e.Current && e.EndDate != nil {
			end = *e.EndDate
		}
		out.ExperienceTimeline[i] = TimelineEntry{
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Current:   e.Current,
			Duration:  Duration(e.StartDate, end),
		}
	}

	out.Projects = make([]ProjectDigest, len(projects))
	for i, p := range projects {
		out.Projects[i] = ProjectDigest{ID: p.ID, Title: p.Title, Featured: p.Featured, CreatedAt: p.CreatedAt}
	}

	return &out, nil
}

// skillDistribution rounds each share to the nearest integer, so the sum may be off by one.
func skillDistribution(categories []database.CategoryCount) []SkillShare {
	var total int64
	for _, c := range categories {
		total += c.Count
	}

	shares := make([]SkillShare, len(categories))
	for i, c := range categories {
		shares[i] = SkillShare{Category: c.Category, Count: c.Count}
		if total > 0 {
			shares[i].Percentage = int(math.Round(float64(c.Count) / float64(total) * 100))
		}
	}
	return shares
}

// Duration describes the calendar distance from start to end, e.g. "2 years 3 months",
// "5 months" or "12 days".
func Duration(start, end time.Time) string {
	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		start, end = end, start
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months > 0 && start.AddDate(0, months, 0).After(end) {
		months--
	}

	years := months / 12
	switch {
	case years > 0:
		return plural(years, "year") + " " + plural(months%12, "month")
	case months > 0:
		return plural(months, "month")
	default:
		days := int(end.Sub(start.AddDate(0, months, 0)).Hours() / 24)
		return plural(days, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
