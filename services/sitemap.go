package services

import (
	"context"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

	// SitemapCacheControl lets CDNs hold the document for an hour.
	SitemapCacheControl = "public, max-age=3600, s-maxage=3600"
)

type SitemapSource interface {
	FindSitemapEntries(ctx context.Context) ([]models.Project, error)
}

type sitemapPage struct {
	path       string
	changeFreq string
	priority   float64
}

var staticPages = []sitemapPage{
	{path: "", changeFreq: "weekly", priority: 1.0},
	{path: "/admin", changeFreq: "monthly", priority: 0.3},
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type SitemapService struct {
	projects SitemapSource
	baseURL  string
	now      func() time.Time
}

func NewSitemapService(projects SitemapSource, baseURL string) *SitemapService {
	return &SitemapService{projects: projects, baseURL: baseURL, now: time.Now}
}

// Build renders the sitemap: the static pages stamped with the current time, then one entry per
// project stamped with its last update.
func (s *SitemapService) Build(ctx context.Context) ([]byte, error) {
	projects, err := s.projects.FindSitemapEntries(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("generate", "sitemap", err)
	}

	set := urlSet{Xmlns: sitemapNamespace}
	now := s.now().UTC()
	for _, page := range staticPages {
		set.URLs = append(set.URLs, s.entry(page.path, now, page.changeFreq, page.priority))
	}
	for _, p := range projects {
		set.URLs = append(set.URLs, s.entry("/projects/"+p.Slug, p.UpdatedAt.UTC(), "monthly", 0.8))
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("Failed to generate sitemap", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func (s *SitemapService) entry(path string, lastMod time.Time, changeFreq string, priority float64) sitemapURL {
	return sitemapURL{
		Loc:        s.baseURL + path,
		LastMod:    lastMod.Format(time.RFC3339),
		ChangeFreq: changeFreq,
		Priority:   strconv.FormatFloat(priority, 'f', 1, 64),
	}
}
