// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory repositories, a scripted LLM and a recording preview cache.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitebuilder/internal/ai"
	"sitebuilder/internal/middleware"
	"sitebuilder/internal/models"
	"sitebuilder/internal/session"
	"sitebuilder/internal/store"
)

// --- users ---

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	pass  map[uuid.UUID]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]*models.User{}, pass: map[uuid.UUID]string{}}
}

func (f *fakeUsers) add(email, password string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: uuid.New(), Email: email, CreatedAt: time.Now()}
	f.users[u.ID] = u
	f.pass[u.ID] = password
	return u
}

func (f *fakeUsers) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Create(email, password string) (*models.User, error) {
	if u, _ := f.FindByEmail(email); u != nil {
		return nil, store.ErrEmailTaken
	}
	return f.add(strings.ToLower(email), password), nil
}

func (f *fakeUsers) SetLLMSettings(userID uuid.UUID, provider, model, apiKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.LLMProvider, u.LLMModel, u.LLMAPIKey = provider, model, apiKey
	return nil
}

func (f *fakeUsers) CheckPassword(user *models.User, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pass[user.ID] == password
}

// --- websites ---

type fakeWebsites struct {
	mu    sync.Mutex
	sites map[uuid.UUID]*models.Website
}

func newFakeWebsites() *fakeWebsites {
	return &fakeWebsites{sites: map[uuid.UUID]*models.Website{}}
}

func (f *fakeWebsites) ListByUser(userID uuid.UUID) ([]models.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Website
	for _, s := range f.sites {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeWebsites) FindOwned(id, userID uuid.UUID) (*models.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (f *fakeWebsites) Create(userID uuid.UUID, name, context string) (*models.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.Website{ID: uuid.New(), UserID: userID, Name: name, Context: context}
	f.sites[s.ID] = s
	c := *s
	return &c, nil
}

func (f *fakeWebsites) Update(id, userID uuid.UUID, name, context string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	s.Name, s.Context = name, context
	return true, nil
}

func (f *fakeWebsites) UpdateCustomization(id, userID uuid.UUID, c models.Customization) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	s.Customization = c
	return true, nil
}

func (f *fakeWebsites) SetSlot(id uuid.UUID, kind models.SlotKind, slot models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sites[id].SetSlot(kind, slot)
	return nil
}

func (f *fakeWebsites) Delete(id, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(f.sites, id)
	return true, nil
}

// --- pages ---

type fakePages struct {
	mu    sync.Mutex
	pages []*models.Page // creation order
}

func copyPage(p *models.Page) *models.Page {
	c := *p
	c.Sections = append(models.Sections{}, p.Sections...)
	return &c
}

func (f *fakePages) ListByWebsite(websiteID uuid.UUID) ([]models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Page
	for _, p := range f.pages {
		if p.WebsiteID == websiteID {
			out = append(out, *copyPage(p))
		}
	}
	return out, nil
}

func (f *fakePages) FindHomePages(websiteID uuid.UUID) ([]models.Page, error) {
	all, _ := f.ListByWebsite(websiteID)
	var out []models.Page
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), "home") {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePages) Find(websiteID, id uuid.UUID) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.ID == id && p.WebsiteID == websiteID {
			return copyPage(p), nil
		}
	}
	return nil, nil
}

func (f *fakePages) FindBySlug(websiteID uuid.UUID, slug string) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.Slug == slug && p.WebsiteID == websiteID {
			return copyPage(p), nil
		}
	}
	return nil, nil
}

func (f *fakePages) SlugTaken(websiteID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.WebsiteID == websiteID && p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePages) Create(p *models.Page) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := copyPage(p)
	c.ID = uuid.New()
	f.pages = append(f.pages, c)
	return copyPage(c), nil
}

func (f *fakePages) Update(p *models.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.pages {
		if existing.ID == p.ID && existing.WebsiteID == p.WebsiteID {
			existing.Name, existing.Slug = p.Name, p.Slug
			existing.SEOTitle, existing.SEODescription = p.SEOTitle, p.SEODescription
		}
	}
	return nil
}

func (f *fakePages) SaveSections(websiteID, id uuid.UUID, list models.Sections) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.ID == id && p.WebsiteID == websiteID {
			p.Sections = append(models.Sections{}, list...)
		}
	}
	return nil
}

func (f *fakePages) Delete(websiteID, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.pages {
		if p.ID == id && p.WebsiteID == websiteID {
			f.pages = append(f.pages[:i], f.pages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// stored returns the persisted sections of a page.
func (f *fakePages) stored(id uuid.UUID) models.Sections {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.ID == id {
			return p.Sections
		}
	}
	return nil
}

// --- llm ---

// fakeLLM answers every Send with reply, or err when set.
type fakeLLM struct {
	mu          sync.Mutex
	reply       string
	err         error
	validateErr error
	sent        []ai.Envelope
	validated   []string
}

func (f *fakeLLM) Send(ctx context.Context, env ai.Envelope) (*ai.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, env)
	if f.err != nil {
		return nil, f.err
	}
	res := &ai.Result{Text: f.reply}
	if env.ExpectStructured {
		res.Data = ai.ExtractJSON(f.reply)
	}
	return res, nil
}

func (f *fakeLLM) ValidateKey(ctx context.Context, provider, apiKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validated = append(f.validated, provider+":"+apiKey)
	return f.validateErr
}

func (f *fakeLLM) Available() []string { return []string{"anthropic", "openai"} }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// --- preview cache ---

type fakePreviews struct {
	mu              sync.Mutex
	docs            map[string][]byte
	pageDrops       int
	websiteDrops    int
	lastDroppedSite uuid.UUID
}

func newFakePreviews() *fakePreviews {
	return &fakePreviews{docs: map[string][]byte{}}
}

func (f *fakePreviews) Get(ctx context.Context, websiteID, pageID uuid.UUID) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[websiteID.String()+":"+pageID.String()]
	return doc, ok
}

func (f *fakePreviews) Set(ctx context.Context, websiteID, pageID uuid.UUID, html []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[websiteID.String()+":"+pageID.String()] = html
}

func (f *fakePreviews) InvalidatePage(ctx context.Context, websiteID, pageID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, websiteID.String()+":"+pageID.String())
	f.pageDrops++
}

func (f *fakePreviews) InvalidateWebsite(ctx context.Context, websiteID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.docs {
		if strings.HasPrefix(k, websiteID.String()+":") {
			delete(f.docs, k)
		}
	}
	f.websiteDrops++
	f.lastDroppedSite = websiteID
}

// --- sessions ---

type fakeSessionStore struct {
	created   []*session.Data
	destroyed int
	err       error
}

func (f *fakeSessionStore) Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test-session"})
	return "test-session", nil
}

func (f *fakeSessionStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	f.destroyed++
	return f.err
}

// --- environment ---

// testNow is the clock used for section references in handler tests.
var testNow = time.UnixMilli(1_700_000_000_000)

type testEnv struct {
	api      *API
	users    *fakeUsers
	websites *fakeWebsites
	pages    *fakePages
	llm      *fakeLLM
	previews *fakePreviews

	user *models.User
	site *models.Website
	page *models.Page
}

// newTestEnv seeds one user with an API key, one website and one page
// holding sections A and B.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    newFakeUsers(),
		websites: newFakeWebsites(),
		pages:    &fakePages{},
		llm:      &fakeLLM{reply: `{"content":"<section id=\"section-1700000000000\">New</section>","css":"#section-1700000000000 { color: red; }"}`},
		previews: newFakePreviews(),
	}
	env.api = NewAPI(env.users, env.websites, env.pages, env.llm, env.previews, LLMDefaults{Provider: "openai", Model: "gpt-3.5-turbo"})
	env.api.now = func() time.Time { return testNow }

	env.user = env.users.add("owner@example.com", "correct-horse")
	env.users.SetLLMSettings(env.user.ID, "", "", "sk-test")

	site, _ := env.websites.Create(env.user.ID, "Demo Bakery", "Sourdough bakery in Cluj")
	env.site = site

	page, _ := env.pages.Create(&models.Page{
		WebsiteID: site.ID,
		Name:      "Home",
		Slug:      "/",
		Sections: models.Sections{
			{Reference: "section-A", Content: `<section id="section-A">A</section>`, CSS: "#section-A { margin: 0; }"},
			{Reference: "section-B", Content: `<section id="section-B">B</section>`, CSS: "#section-B { padding: 0; }"},
		},
	})
	env.page = page
	return env
}

// router mirrors the production /api routes.
func (env *testEnv) router() http.Handler {
	a := env.api
	r := chi.NewRouter()
	r.Get("/api/profile", a.GetProfile)
	r.Put("/api/profile", a.UpdateProfile)
	r.Get("/api/websites", a.ListWebsites)
	r.Post("/api/websites", a.CreateWebsite)
	r.Route("/api/websites/{id}", func(r chi.Router) {
		r.Get("/", a.GetWebsite)
		r.Put("/", a.UpdateWebsite)
		r.Delete("/", a.DeleteWebsite)
		r.Put("/customization", a.SaveCustomization)
		r.Get("/header-footer", a.GetHeaderFooter)
		r.Post("/header-footer/{slot}/generate", a.GenerateSlot)
		r.Put("/header-footer/{slot}", a.EditSlot)
		r.Get("/preview/{pageRef}", a.Preview)
		r.Get("/pages", a.ListPages)
		r.Post("/pages", a.CreatePage)
		r.Get("/pages/{pageID}", a.GetPage)
		r.Put("/pages/{pageID}", a.UpdatePage)
		r.Delete("/pages/{pageID}", a.DeletePage)
		r.Put("/pages/{pageID}/reorder", a.ReorderSections)
		r.Post("/pages/{pageID}/sections", a.AddSection)
		r.Put("/pages/{pageID}/sections/{ref}", a.EditSection)
		r.Delete("/pages/{pageID}/sections/{ref}", a.DeleteSection)
		r.Post("/pages/{pageID}/sections/{ref}/copy", a.CopySection)
	})
	return r
}

// do performs a request as userID (uuid.Nil for anonymous).
func (env *testEnv) do(t *testing.T, userID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = req.WithContext(middleware.WithSession(req.Context(), &session.Data{UserID: userID}))
	}
	rr := httptest.NewRecorder()
	env.router().ServeHTTP(rr, req)
	return rr
}

// as performs a request as the seeded owner.
func (env *testEnv) as(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return env.do(t, env.user.ID, method, path, body)
}

func (env *testEnv) sitePath(suffix string) string {
	return "/api/websites/" + env.site.ID.String() + suffix
}

func (env *testEnv) pagePath(suffix string) string {
	return env.sitePath("/pages/" + env.page.ID.String() + suffix)
}

// decode unmarshals a JSON response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

// wantStatus fails the test when the response code differs.
func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

// wantMessage fails the test when the error envelope carries another message.
func wantMessage(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp errorResponse
	decode(t, rr, &resp)
	if resp.Message != want {
		t.Errorf("message: got %q, want %q", resp.Message, want)
	}
}

func refsOf(list models.Sections) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Reference
	}
	return out
}
