package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/database/databasetest"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/images"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "admin@portfolio.com"
	testAdminPassword = "correct horse battery staple"
)

// memoryStore is an in-memory images.ObjectStore that counts upstream uploads.
type memoryStore struct {
	mu      sync.Mutex
	assets  map[string]images.Asset
	uploads int
}

func (m *memoryStore) Upload(_ context.Context, body io.Reader, opts images.UploadOptions) (*images.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	id := opts.Folder + "/" + opts.PublicID
	asset := images.Asset{
		PublicID:  id,
		SecureURL: "https://res.cloudinary.com/demo/image/upload/" + id + ".png",
		Width:     2,
		Height:    2,
		Format:    "png",
		Bytes:     int64(len(data)),
		CreatedAt: time.Now(),
		Folder:    opts.Folder,
	}
	m.assets[id] = asset
	return &asset, nil
}

func (m *memoryStore) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[publicID]; !ok {
		return images.ErrAssetNotFound
	}
	delete(m.assets, publicID)
	return nil
}

func (m *memoryStore) Info(_ context.Context, publicID string) (*images.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	asset, ok := m.assets[publicID]
	if !ok {
		return nil, images.ErrAssetNotFound
	}
	return &asset, nil
}

func (m *memoryStore) List(_ context.Context, folder string) ([]images.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []images.Asset
	for _, a := range m.assets {
		if a.Folder == folder {
			out = append(out, a)
		}
	}
	return out, nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      database.Database
	store   *memoryStore
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	adminDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(adminDir, "index.html"), []byte("<h1>admin</h1>"), 0o600))

	cfg := config.Load(map[string]string{
		"APP_ENV":            "test",
		"SESSION_SECRET":     "test-secret",
		"SITE_URL":           "https://example.com",
		"CONTACT_RATE_LIMIT": "1000-M",
		"LOGIN_RATE_LIMIT":   "1000-M",
		"ADMIN_DIR":          adminDir,
	})

	db := databasetest.New(t)
	hasher := auth.NewHasher(bcrypt.MinCost)
	admin, _, err := services.EnsureAdmin(context.Background(), db.UserRepo(), hasher, testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	sessions, err := auth.NewSessionManager(cfg.Session.Secret, time.Hour)
	require.NoError(t, err)
	authenticator, err := auth.NewAuthenticator(db.UserRepo(), hasher)
	require.NoError(t, err)
	session, err := sessions.Issue(admin.ID, admin.Email)
	require.NoError(t, err)

	store := &memoryStore{assets: map[string]images.Asset{}}
	handler, err := newRouter(Services{
		Database:      db,
		Images:        images.NewService(store, db.ImageRepo(), zerolog.Nop()),
		Sessions:      sessions,
		Authenticator: authenticator,
	}, withConfig(cfg), withStartupTime(time.Now()))
	require.NoError(t, err)

	return &testServer{t: t, handler: handler, db: db, store: store, token: session.Token}
}

func (s *testServer) send(req *http.Request, authed bool) *httptest.ResponseRecorder {
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, authed)
}

type testResponse struct {
	Success    bool                 `json:"success"`
	Data       json.RawMessage      `json:"data"`
	Message    string               `json:"message"`
	Warning    string               `json:"warning"`
	Pagination *database.Pagination `json:"pagination"`
	Total      *int                 `json:"total"`
	Error      string               `json:"error"`
	Details    []errs.Issue         `json:"details"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) testResponse {
	t.Helper()

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data), string(resp.Data))
	}
	return resp
}

func newProjectBody(title string) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "A project description",
		"imageUrl":     "https://x/y.png",
		"technologies": []string{"a", "b"},
	}
}

func TestCreateProjectDerivesSlugAndRejectsDuplicates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/projects", newProjectBody("My App"), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Project
	resp := decode(t, rec, &created)
	assert.True(t, resp.Success)
	assert.Equal(t, "Project created successfully", resp.Message)
	assert.Equal(t, "my-app", created.Slug)
	assert.False(t, created.Featured)
	assert.NotEmpty(t, created.ID)

	rec = s.do(http.MethodGet, "/api/projects/"+created.ID, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Project
	decode(t, rec, &fetched)
	assert.Equal(t, "My App", fetched.Title)
	assert.Equal(t, "A project description", fetched.Description)
	assert.Equal(t, "https://x/y.png", fetched.ImageURL)
	assert.Equal(t, []string{"a", "b"}, []string(fetched.Technologies))
	assert.Nil(t, fetched.Link)

	rec = s.do(http.MethodPost, "/api/projects", newProjectBody("My App"), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp = decode(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "Project with this slug already exists", resp.Error)
}

func TestCreateProjectAcceptsCommaSeparatedTechnologies(t *testing.T) {
	s := newTestServer(t)

	body := newProjectBody("Comma App")
	body["technologies"] = "Go, PostgreSQL ,, Docker"
	body["link"] = ""
	rec := s.do(http.MethodPost, "/api/projects", body, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Project
	decode(t, rec, &created)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker"}, []string(created.Technologies))
	assert.Nil(t, created.Link)
}

func TestUpdateProjectRegeneratesSlug(t *testing.T) {
	s := newTestServer(t)

	var first, second models.Project
	decode(t, s.do(http.MethodPost, "/api/projects", newProjectBody("First"), true), &first)
	decode(t, s.do(http.MethodPost, "/api/projects", newProjectBody("Second"), true), &second)

	rec := s.do(http.MethodPut, "/api/projects/"+first.ID, map[string]any{"title": "Renamed Project!"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Project
	decode(t, rec, &updated)
	assert.Equal(t, "renamed-project", updated.Slug)
	assert.Equal(t, "A project description", updated.Description)

	rec = s.do(http.MethodPut, "/api/projects/"+second.ID, map[string]any{"title": "Renamed  project"}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Project with this slug already exists", decode(t, rec, nil).Error)

	rec = s.do(http.MethodPut, "/api/projects/missing", map[string]any{"title": "x"}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decode(t, rec, nil).Error)
}

func TestListProjectsFiltersAndPaginates(t *testing.T) {
	s := newTestServer(t)

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		body := newProjectBody(title)
		body["featured"] = title != "Beta"
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/projects", body, true).Code)
	}

	var page []models.Project
	resp := decode(t, s.do(http.MethodGet, "/api/projects?page=2&limit=2", nil, false), &page)
	require.NotNil(t, resp.Pagination)
	assert.Len(t, page, 1)
	assert.Equal(t, database.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2, HasNext: false, HasPrev: true}, *resp.Pagination)

	var featured []models.Project
	resp = decode(t, s.do(http.MethodGet, "/api/projects?featured=true", nil, false), &featured)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	var found []models.Project
	decode(t, s.do(http.MethodGet, "/api/projects?search=GAM", nil, false), &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Gamma", found[0].Title)
}

func TestSkillRules(t *testing.T) {
	s := newTestServer(t)

	skill := map[string]any{"name": "Go", "category": "Backend", "level": 5, "order": 1}
	rec := s.do(http.MethodPost, "/api/skills", skill, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/skills", skill, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Skill with this name and category already exists", decode(t, rec, nil).Error)

	rec = s.do(http.MethodPost, "/api/skills", map[string]any{"name": "Rust", "category": "Backend", "level": 9}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec, nil)
	assert.Equal(t, "Validation error", resp.Error)
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, "level", resp.Details[0].Path)
}

func TestExperienceDateRules(t *testing.T) {
	s := newTestServer(t)

	base := map[string]any{
		"company":     "C",
		"role":        "R",
		"startDate":   "2024-01-01T00:00:00Z",
		"description": "d",
	}
	with := func(extra map[string]any) map[string]any {
		out := map[string]any{}
		for k, v := range base {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	rec := s.do(http.MethodPost, "/api/experience", with(map[string]any{"endDate": "2023-01-01T00:00:00Z"}), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "End date must be after start date", decode(t, rec, nil).Error)

	rec = s.do(http.MethodPost, "/api/experience", with(map[string]any{"current": true, "endDate": "2025-01-01T00:00:00Z"}), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current experience cannot have an end date", decode(t, rec, nil).Error)

	rec = s.do(http.MethodPost, "/api/experience", with(map[string]any{"endDate": "2024-06-01T00:00:00Z"}), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Experience
	decode(t, rec, &created)

	// the stored end date still applies when only current is sent
	rec = s.do(http.MethodPut, "/api/experience/"+created.ID, map[string]any{"current": true}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current experience cannot have an end date", decode(t, rec, nil).Error)

	rec = s.do(http.MethodPut, "/api/experience/"+created.ID, map[string]any{"current": true, "endDate": ""}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Experience
	decode(t, rec, &updated)
	assert.True(t, updated.Current)
	assert.Nil(t, updated.EndDate)

	rec = s.do(http.MethodPost, "/api/experience", with(map[string]any{"current": true, "endDate": ""}), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var ongoing models.Experience
	decode(t, rec, &ongoing)
	assert.Nil(t, ongoing.EndDate)

	rec = s.do(http.MethodPut, "/api/experience/"+ongoing.ID, map[string]any{"endDate": "not a date"}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec, nil)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "endDate", resp.Details[0].Path)
}

func TestContactLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/contact", map[string]any{"name": "Ada", "email": "ada@example.com", "message": "hello world!"}, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Message sent", decode(t, rec, nil).Message)

	var contacts []models.Contact
	decode(t, s.do(http.MethodGet, "/api/contacts", nil, true), &contacts)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Ada", contacts[0].Name)
	assert.False(t, contacts[0].Read)
	id := contacts[0].ID

	rec = s.do(http.MethodPut, "/api/contacts/"+id, map[string]any{"read": true}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Contact
	decode(t, rec, &updated)
	assert.True(t, updated.Read)

	var unread []models.Contact
	decode(t, s.do(http.MethodGet, "/api/contacts?read=false", nil, true), &unread)
	assert.Empty(t, unread)

	rec = s.do(http.MethodDelete, "/api/contacts/"+id, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/contacts/"+id, nil, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Contact message not found", decode(t, rec, nil).Error)
}

func TestContactValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/contact", map[string]any{"name": "A", "email": "nope", "message": "short"}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec, nil)
	assert.Equal(t, "Validation error", resp.Error)

	paths := make([]string, len(resp.Details))
	for i, issue := range resp.Details {
		paths[i] = issue.Path
	}
	assert.ElementsMatch(t, []string{"name", "email", "message"}, paths)

	count, err := s.db.ContactRepo().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProfileIsMaterializedOnce(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	var first, second models.Profile
	decode(t, s.do(http.MethodGet, "/api/profile", nil, false), &first)
	decode(t, s.do(http.MethodGet, "/api/profile", nil, false), &second)

	assert.Equal(t, models.DefaultProfile().Name, first.Name)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	rec := s.do(http.MethodPut, "/api/profile", map[string]any{
		"name":         "Jane Doe",
		"title":        "Engineer",
		"bio":          "Builds things",
		"email":        "jane@example.com",
		"website":      "",
		"profileImage": "/me.jpg",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Profile
	decode(t, rec, &updated)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Nil(t, updated.Website)
	require.NotNil(t, updated.ProfileImage)
	assert.Equal(t, "/me.jpg", *updated.ProfileImage)

	count, err := s.db.ProfileRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProfileKeepsOmittedFields(t *testing.T) {
	s := newTestServer(t)

	var before models.Profile
	decode(t, s.do(http.MethodGet, "/api/profile", nil, false), &before)
	require.NotNil(t, before.Github)
	require.NotNil(t, before.Phone)

	rec := s.do(http.MethodPut, "/api/profile", map[string]any{
		"name":     "Jane Doe",
		"title":    "Engineer",
		"bio":      "Builds things",
		"email":    "jane@example.com",
		"location": "",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after models.Profile
	decode(t, s.do(http.MethodGet, "/api/profile", nil, false), &after)
	assert.Equal(t, "Jane Doe", after.Name)
	assert.Equal(t, before.Github, after.Github)
	assert.Equal(t, before.Phone, after.Phone)
	assert.Equal(t, before.ProfileImage, after.ProfileImage)
	assert.Nil(t, after.Location)
}

func TestSettingsPersistAndGateContactForm(t *testing.T) {
	s := newTestServer(t)

	var initial settingsResponse
	decode(t, s.do(http.MethodGet, "/api/settings", nil, false), &initial)
	assert.Equal(t, fallbackSiteTitle, initial.SiteTitle)
	assert.Equal(t, models.ThemeDark, initial.Theme)
	assert.True(t, initial.EmailNotifications)

	rec := s.do(http.MethodPut, "/api/settings", map[string]any{
		"siteTitle":       "My Site",
		"siteDescription": "About me",
		"contactEmail":    "me@example.com",
		"maintenanceMode": true,
		"theme":           "light",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored settingsResponse
	decode(t, s.do(http.MethodGet, "/api/settings", nil, false), &stored)
	assert.Equal(t, settingsResponse{
		SiteTitle:          "My Site",
		SiteDescription:    "About me",
		ContactEmail:       "me@example.com",
		MaintenanceMode:    true,
		AnalyticsEnabled:   true,
		EmailNotifications: true,
		Theme:              models.ThemeLight,
	}, stored)

	var profile models.Profile
	decode(t, s.do(http.MethodGet, "/api/profile", nil, false), &profile)
	assert.Equal(t, "My Site", profile.Name)

	rec = s.do(http.MethodPost, "/api/contact", map[string]any{"name": "Ada", "email": "ada@example.com", "message": "hello world!"}, false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("folder", "portfolio"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadLifecycle(t *testing.T) {
	s := newTestServer(t)

	oversized := append(pngFile(t), make([]byte, 6<<20)...)
	rec := s.send(multipartUpload(t, "big.png", oversized), true)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Zero(t, s.store.uploads)

	rec = s.send(multipartUpload(t, "notes.txt", []byte("just some text, not an image")), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only image files are allowed", decode(t, rec, nil).Error)

	rec = s.send(multipartUpload(t, "Avatar.png", pngFile(t)), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var asset images.Asset
	resp := decode(t, rec, &asset)
	assert.Equal(t, "Image uploaded successfully", resp.Message)
	assert.Empty(t, resp.Warning)
	assert.True(t, strings.HasPrefix(asset.PublicID, "portfolio/"))
	assert.NotEmpty(t, asset.SecureURL)

	var listed []images.Asset
	resp = decode(t, s.do(http.MethodGet, "/api/images?folder=portfolio", nil, true), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, asset.PublicID, listed[0].PublicID)
	require.NotNil(t, resp.Total)
	assert.Equal(t, 1, *resp.Total)

	rec = s.do(http.MethodGet, "/api/upload?publicId="+asset.PublicID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/api/upload?publicId="+asset.PublicID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Image deleted successfully", decode(t, rec, nil).Message)

	rec = s.do(http.MethodDelete, "/api/upload", nil, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No public ID provided", decode(t, rec, nil).Error)

	decode(t, s.do(http.MethodGet, "/api/images", nil, true), &listed)
	assert.Empty(t, listed)
}

func TestGuardedRoutesRejectAnonymousCallers(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/projects", newProjectBody("Sneaky")},
		{http.MethodPut, "/api/projects/any", map[string]any{"title": "x"}},
		{http.MethodDelete, "/api/projects/any", nil},
		{http.MethodPost, "/api/skills", map[string]any{"name": "Go", "category": "Backend", "level": 3}},
		{http.MethodPut, "/api/skills/any", map[string]any{"level": 3}},
		{http.MethodDelete, "/api/skills/any", nil},
		{http.MethodPost, "/api/experience", map[string]any{"company": "C"}},
		{http.MethodPut, "/api/experience/any", map[string]any{"company": "C"}},
		{http.MethodDelete, "/api/experience/any", nil},
		{http.MethodPut, "/api/profile", map[string]any{"name": "x"}},
		{http.MethodPut, "/api/settings", map[string]any{"siteTitle": "x"}},
		{http.MethodGet, "/api/contacts", nil},
		{http.MethodPut, "/api/contacts/any", map[string]any{"read": true}},
		{http.MethodDelete, "/api/contacts/any", nil},
		{http.MethodGet, "/api/analytics", nil},
		{http.MethodGet, "/api/upload?publicId=x", nil},
		{http.MethodDelete, "/api/upload?publicId=x", nil},
		{http.MethodGet, "/api/images", nil},
		{http.MethodPost, "/api/images/reconcile", nil},
		{http.MethodGet, "/api/admin/session", nil},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.do(tc.method, tc.path, tc.body, false)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decode(t, rec, nil).Error)
		})
	}

	projects, err := s.db.ProjectRepo().Count(ctx)
	require.NoError(t, err)
	skills, err := s.db.SkillRepo().Count(ctx)
	require.NoError(t, err)
	experiences, err := s.db.ExperienceRepo().Count(ctx)
	require.NoError(t, err)
	profiles, err := s.db.ProfileRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, projects+skills+experiences+profiles)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, s.send(req, false).Code)
}

func TestAdminPagesRedirectToLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/admin/", nil, false)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/admin/login?callbackUrl="))

	rec = s.do(http.MethodGet, "/admin/", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin")
}

func TestLoginIssuesSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/auth/login", map[string]any{"email": testAdminEmail, "password": "wrong"}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec, nil).Error)

	rec = s.do(http.MethodPost, "/api/auth/login", map[string]any{"email": testAdminEmail, "password": testAdminPassword}, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login loginResponse
	decode(t, rec, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, testAdminEmail, login.User.Email)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie.Value})
	rec = s.send(req, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var user sessionUser
	decode(t, rec, &user)
	assert.Equal(t, login.User, user)
}

func TestAnalyticsAndSitemap(t *testing.T) {
	s := newTestServer(t)

	_, err := services.NewSeeder(s.db, zerolog.Nop()).Seed(context.Background())
	require.NoError(t, err)

	var analytics services.Analytics
	rec := s.do(http.MethodGet, "/api/analytics", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &analytics)
	assert.Equal(t, int64(2), analytics.ContentStats.TotalProjects)
	assert.NotEmpty(t, analytics.SkillDistribution)

	rec = s.do(http.MethodGet, "/sitemap.xml", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.SitemapCacheControl, rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<loc>https://example.com/projects/")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))
}
