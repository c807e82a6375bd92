package api

import (
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/validation"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler    projectHandler
	skillHandler      skillHandler
	experienceHandler experienceHandler
	profileHandler    profileHandler
	settingsHandler   settingsHandler
	contactHandler    contactHandler
	analyticsHandler  analyticsHandler
	imageHandler      imageHandler
	sitemapHandler    sitemapHandler
	authHandler       authHandler
	healthHandler     healthHandler
}

type createProjectRequest struct {
	Title        string                `json:"title" validate:"required,max=100"`
	Slug         string                `json:"slug" validate:"max=100"`
	Description  string                `json:"description" validate:"required,max=1000"`
	ImageURL     string                `json:"imageUrl" validate:"required,url"`
	Link         *string               `json:"link" validate:"omitempty,urlorempty"`
	GithubURL    *string               `json:"githubUrl" validate:"omitempty,urlorempty"`
	Technologies validation.StringList `json:"technologies" validate:"min=1,dive,max=50"`
	Featured     bool                  `json:"featured"`
}

func (req createProjectRequest) toModel() models.Project {
	slug := req.Slug
	if strings.TrimSpace(slug) == "" {
		slug = req.Title
	}
	return models.Project{
		Title:        req.Title,
		Slug:         models.Slugify(slug),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Link:         validation.OptionalString(req.Link),
		GithubURL:    validation.OptionalString(req.GithubURL),
		Technologies: []string(req.Technologies),
		Featured:     req.Featured,
	}
}

// updateProjectRequest is a partial project. Nil fields stay unchanged.
type updateProjectRequest struct {
	Title        *string                `json:"title" validate:"omitnil,min=1,max=100"`
	Slug         *string                `json:"slug" validate:"omitnil,min=1,max=100"`
	Description  *string                `json:"description" validate:"omitnil,min=1,max=1000"`
	ImageURL     *string                `json:"imageUrl" validate:"omitnil,url"`
	Link         *string                `json:"link" validate:"omitempty,urlorempty"`
	GithubURL    *string                `json:"githubUrl" validate:"omitempty,urlorempty"`
	Technologies *validation.StringList `json:"technologies" validate:"omitnil,min=1,dive,max=50"`
	Featured     *bool                  `json:"featured"`
}

func (req updateProjectRequest) apply(p *models.Project) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Link != nil {
		p.Link = validation.OptionalString(req.Link)
	}
	if req.GithubURL != nil {
		p.GithubURL = validation.OptionalString(req.GithubURL)
	}
	if req.Technologies != nil {
		p.Technologies = []string(*req.Technologies)
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
}

type createSkillRequest struct {
	Name     string  `json:"name" validate:"required,max=50"`
	Category string  `json:"category" validate:"required,max=50"`
	Level    int     `json:"level" validate:"min=1,max=5"`
	IconURL  *string `json:"iconUrl" validate:"omitempty,urlorempty"`
	Order    int     `json:"order" validate:"min=0"`
}

func (req createSkillRequest) toModel() models.Skill {
	return models.Skill{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Level:    req.Level,
		IconURL:  validation.OptionalString(req.IconURL),
		Order:    req.Order,
	}
}

type updateSkillRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=50"`
	Category *string `json:"category" validate:"omitnil,min=1,max=50"`
	Level    *int    `json:"level" validate:"omitnil,min=1,max=5"`
	IconURL  *string `json:"iconUrl" validate:"omitempty,urlorempty"`
	Order    *int    `json:"order" validate:"omitnil,min=0"`
}

func (req updateSkillRequest) apply(s *models.Skill) {
	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		s.Category = strings.TrimSpace(*req.Category)
	}
	if req.Level != nil {
		s.Level = *req.Level
	}
	if req.IconURL != nil {
		s.IconURL = validation.OptionalString(req.IconURL)
	}
	if req.Order != nil {
		s.Order = *req.Order
	}
}

type createExperienceRequest struct {
	Company     string  `json:"company" validate:"required,max=100"`
	Role        string  `json:"role" validate:"required,max=100"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string `json:"endDate" validate:"omitnil,datetimeorempty=2006-01-02T15:04:05Z07:00"`
	Description string  `json:"description" validate:"required,max=1000"`
	Current     bool    `json:"current"`
	Order       int     `json:"order" validate:"min=0"`
}

func (req createExperienceRequest) toModel() (models.Experience, error) {
	start, err := validation.ParseDateTime(req.StartDate)
	if err != nil {
		return models.Experience{}, err
	}
	end, err := optionalDate(req.EndDate)
	if err != nil {
		return models.Experience{}, err
	}
	return models.Experience{
		Company:     req.Company,
		Role:        req.Role,
		StartDate:   start,
		EndDate:     end,
		Description: req.Description,
		Current:     req.Current,
		Order:       req.Order,
	}, nil
}

// updateExperienceRequest is a partial experience. An empty endDate clears the stored one.
type updateExperienceRequest struct {
	Company     *string `json:"company" validate:"omitnil,min=1,max=100"`
	Role        *string `json:"role" validate:"omitnil,min=1,max=100"`
	StartDate   *string `json:"startDate" validate:"omitnil,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate     *string `json:"endDate" validate:"omitnil,datetimeorempty=2006-01-02T15:04:05Z07:00"`
	Description *string `json:"description" validate:"omitnil,min=1,max=1000"`
	Current     *bool   `json:"current"`
	Order       *int    `json:"order" validate:"omitnil,min=0"`
}

func (req updateExperienceRequest) apply(e *models.Experience) error {
	if req.Company != nil {
		e.Company = *req.Company
	}
	if req.Role != nil {
		e.Role = *req.Role
	}
	if req.StartDate != nil {
		start, err := validation.ParseDateTime(*req.StartDate)
		if err != nil {
			return err
		}
		e.StartDate = start
	}
	if req.EndDate != nil {
		end, err := optionalDate(req.EndDate)
		if err != nil {
			return err
		}
		e.EndDate = end
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Current != nil {
		e.Current = *req.Current
	}
	if req.Order != nil {
		e.Order = *req.Order
	}
	return nil
}

func optionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := validation.ParseDateTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type profileRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Title        string  `json:"title" validate:"required,max=100"`
	Bio          string  `json:"bio" validate:"required,max=1000"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Location     *string `json:"location" validate:"omitempty,max=100"`
	Website      *string `json:"website" validate:"omitempty,urlorempty"`
	Github       *string `json:"github" validate:"omitempty,urlorempty"`
	Linkedin     *string `json:"linkedin" validate:"omitempty,urlorempty"`
	Twitter      *string `json:"twitter" validate:"omitempty,urlorempty"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,urlorpath"`
}

// apply merges req into p. Omitted optional fields keep their stored value and an empty string clears them.
func (req profileRequest) apply(p *models.Profile) {
	p.Name = req.Name
	p.Title = req.Title
	p.Bio = req.Bio
	p.Email = req.Email

	for _, f := range []struct {
		src *string
		dst **string
	}{
		{req.Phone, &p.Phone},
		{req.Location, &p.Location},
		{req.Website, &p.Website},
		{req.Github, &p.Github},
		{req.Linkedin, &p.Linkedin},
		{req.Twitter, &p.Twitter},
		{req.ProfileImage, &p.ProfileImage},
	} {
		if f.src != nil {
			*f.dst = validation.OptionalString(f.src)
		}
	}
}

// settingsRequest updates the profile-derived fields and the stored toggles.
// Omitted toggles keep their stored value.
type settingsRequest struct {
	SiteTitle          string `json:"siteTitle" validate:"required,max=100"`
	SiteDescription    string `json:"siteDescription" validate:"required,max=500"`
	ContactEmail       string `json:"contactEmail" validate:"required,email"`
	MaintenanceMode    *bool  `json:"maintenanceMode"`
	AnalyticsEnabled   *bool  `json:"analyticsEnabled"`
	EmailNotifications *bool  `json:"emailNotifications"`
	Theme              string `json:"theme" validate:"omitempty,oneof=light dark"`
}

func (req settingsRequest) apply(s *models.Settings) {
	if req.MaintenanceMode != nil {
		s.MaintenanceMode = *req.MaintenanceMode
	}
	if req.AnalyticsEnabled != nil {
		s.AnalyticsEnabled = *req.AnalyticsEnabled
	}
	if req.EmailNotifications != nil {
		s.EmailNotifications = *req.EmailNotifications
	}
	if req.Theme != "" {
		s.Theme = req.Theme
	}
}

type settingsResponse struct {
	SiteTitle          string `json:"siteTitle"`
	SiteDescription    string `json:"siteDescription"`
	ContactEmail       string `json:"contactEmail"`
	MaintenanceMode    bool   `json:"maintenanceMode"`
	AnalyticsEnabled   bool   `json:"analyticsEnabled"`
	EmailNotifications bool   `json:"emailNotifications"`
	Theme              string `json:"theme"`
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

type updateContactRequest struct {
	Read *bool `json:"read" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      sessionUser `json:"user"`
}
