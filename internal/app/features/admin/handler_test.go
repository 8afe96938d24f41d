package admin

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/greencircuit/internal/app/store/memstore"
	"github.com/dalemusser/greencircuit/internal/app/system/auth"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/mediastore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/greencircuit/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// flakyBackend wraps memstore and fails saves while fail is set.
type flakyBackend struct {
	*memstore.Store
	fail atomic.Bool
}

var errDiskFull = errors.New("disk full")

func (b *flakyBackend) SaveSite(ctx context.Context, key string, s models.SiteSettings) error {
	if b.fail.Load() {
		return errDiskFull
	}
	return b.Store.SaveSite(ctx, key, s)
}

func (b *flakyBackend) SaveContent(ctx context.Context, key string, c models.ContentSettings) error {
	if b.fail.Load() {
		return errDiskFull
	}
	return b.Store.SaveContent(ctx, key, c)
}

// apiError mirrors errorBody without the field map, which does not decode
// back into error values.
type apiError struct {
	Error   string `json:"error"`
	Applied bool   `json:"applied"`
}

type fixture struct {
	router  chi.Router
	store   *contentstore.Store
	backend *flakyBackend
	media   *mediastore.Local
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := &flakyBackend{Store: memstore.New()}
	store := contentstore.New(backend, contentstore.Options{Now: func() time.Time { return testutil.FixedTime }})
	t.Cleanup(store.Close)

	media, err := mediastore.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "", auth.DefaultMaxAge, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	h := NewHandler(store, media, nil, zap.NewNop())
	h.now = func() time.Time { return testutil.FixedTime }
	n := 0
	h.newID = func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
	return &fixture{router: Routes(h, sm), store: store, backend: backend, media: media}
}

func (f *fixture) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_RequireAdmin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/state", nil))
	rec.AssertStatus(t, http.StatusUnauthorized)

	req := auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/api/state", nil), testutil.VisitorUser())
	f.do(req).AssertStatus(t, http.StatusForbidden)

	f.do(testutil.NewAdminRequest(http.MethodGet, "/api/state")).AssertStatus(t, http.StatusOK)
}

func TestPatchSite(t *testing.T) {
	f := newFixture(t)

	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPatch, "/api/site", map[string]any{
		"primaryColor": "#3498DB",
	}))
	rec.AssertStatus(t, http.StatusOK)
	if got := f.store.SiteSettings().PrimaryColor; got != "#3498DB" {
		t.Errorf("PrimaryColor = %q", got)
	}
	if got := f.store.SiteSettings().SiteName; got != models.DefaultSiteSettings().SiteName {
		t.Errorf("SiteName changed to %q", got)
	}
}

func TestPatchSite_Validation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPatch, "/api/site", map[string]any{
		"primaryColor": "blue",
	}))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	var body apiError
	rec.DecodeJSON(t, &body)
	if body.Applied {
		t.Error("validation failure reported as applied")
	}
	if f.store.Snapshot().Version != 0 {
		t.Error("rejected patch changed the store")
	}
}

func TestPatchSite_UnknownFieldIsBadRequest(t *testing.T) {
	f := newFixture(t)
	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPatch, "/api/site", map[string]any{
		"primaryColour": "#3498DB",
	}))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestPatchSite_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.fail.Store(true)

	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPatch, "/api/site", map[string]any{
		"accentColor": "#F1C40F",
	}))
	rec.AssertStatus(t, http.StatusServiceUnavailable)

	var body apiError
	rec.DecodeJSON(t, &body)
	if !body.Applied || body.Error != "changes may not be saved" {
		t.Errorf("body = %+v", body)
	}
	if got := f.store.SiteSettings().AccentColor; got != "#F1C40F" {
		t.Errorf("in-memory change lost: AccentColor = %q", got)
	}
}

func TestPutSection(t *testing.T) {
	f := newFixture(t)

	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPut, "/api/sections/hero", models.HeroSection{
		Heading: "Recycle responsibly",
		CTALink: "/contact",
	}))
	rec.AssertStatus(t, http.StatusOK)
	if hero := f.store.ContentSettings().Hero; hero == nil || hero.Heading != "Recycle responsibly" {
		t.Fatalf("hero = %+v", hero)
	}

	rec = f.do(testutil.NewAdminJSONRequest(t, http.MethodPut, "/api/sections/hero", nil))
	rec.AssertStatus(t, http.StatusOK)
	if hero := f.store.ContentSettings().Hero; hero != nil {
		t.Errorf("null body should clear hero, got %+v", hero)
	}
}

func TestPutSection_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		section string
		body    any
		want    int
	}{
		{"unknown section", "pricing", map[string]string{}, http.StatusNotFound},
		{"wrong shape", "blog", map[string]string{"heading": "x"}, http.StatusBadRequest},
		{"invalid hero", "hero", models.HeroSection{}, http.StatusUnprocessableEntity},
		{"duplicate media ids", "media", []models.MediaItem{testutil.Media("m1", false), testutil.Media("m1", true)}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPut, "/api/sections/"+tt.section, tt.body))
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestDecodeSection_Types(t *testing.T) {
	tests := []struct {
		section models.Section
		raw     string
		check   func(any) bool
	}{
		{models.SectionMission, `{"heading":"Why","points":["a"]}`, func(v any) bool {
			m, ok := v.(*models.MissionSection)
			return ok && m != nil && len(m.Points) == 1
		}},
		{models.SectionVideos, `null`, func(v any) bool {
			m, ok := v.(*models.VideosSection)
			return ok && m == nil
		}},
		{models.SectionBlog, `[{"id":"p1","title":"T","status":"Draft"}]`, func(v any) bool {
			p, ok := v.([]models.BlogPost)
			return ok && len(p) == 1 && p[0].ID == "p1"
		}},
		{models.SectionMedia, `[]`, func(v any) bool {
			m, ok := v.([]models.MediaItem)
			return ok && len(m) == 0
		}},
	}
	for _, tt := range tests {
		v, err := decodeSection(tt.section, []byte(tt.raw))
		if err != nil {
			t.Errorf("decodeSection(%s): %v", tt.section, err)
			continue
		}
		if !tt.check(v) {
			t.Errorf("decodeSection(%s) = %#v", tt.section, v)
		}
	}
}

func TestCreatePost_Defaults(t *testing.T) {
	f := newFixture(t)

	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPost, "/api/blog", map[string]any{
		"title": "Drop-off day",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	var got models.BlogPost
	rec.DecodeJSON(t, &got)
	if got.ID != "id-1" || got.Status != models.PostDraft || got.PublishedAt != nil {
		t.Errorf("post = %+v", got)
	}

	rec = f.do(testutil.NewAdminJSONRequest(t, http.MethodPost, "/api/blog", map[string]any{
		"id":     "launch",
		"title":  "We are live",
		"status": "Published",
	}))
	rec.AssertStatus(t, http.StatusCreated)
	rec.DecodeJSON(t, &got)
	if got.PublishedAt == nil || !got.PublishedAt.Equal(testutil.FixedTime) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, testutil.FixedTime)
	}
	if n := len(f.store.ContentSettings().Blog); n != 2 {
		t.Errorf("blog has %d posts, want 2", n)
	}
}

func TestUpdateAndDeletePost(t *testing.T) {
	f := newFixture(t)
	if err := f.store.AddBlogPost(context.Background(), testutil.Post("p1", models.PostPublished)); err != nil {
		t.Fatal(err)
	}
	original, _ := models.FindPost(f.store.ContentSettings().Blog, "p1")

	rec := f.do(testutil.NewAdminJSONRequest(t, http.MethodPut, "/api/blog/p1", map[string]any{
		"title":  "Renamed",
		"status": "Published",
	}))
	rec.AssertStatus(t, http.StatusOK)
	updated, _ := models.FindPost(f.store.ContentSettings().Blog, "p1")
	if updated.Title != "Renamed" {
		t.Errorf("title = %q", updated.Title)
	}
	if original.PublishedAt != nil && (updated.PublishedAt == nil || !updated.PublishedAt.Equal(*original.PublishedAt)) {
		t.Errorf("PublishedAt = %v, want %v", updated.PublishedAt, original.PublishedAt)
	}

	f.do(testutil.NewAdminJSONRequest(t, http.MethodPut, "/api/blog/missing", map[string]any{"title": "x"})).
		AssertStatus(t, http.StatusNotFound)
	f.do(testutil.NewAdminJSONRequest(t, http.MethodPut, "/api/blog/p1", map[string]any{"id": "p2", "title": "x"})).
		AssertStatus(t, http.StatusBadRequest)

	f.do(testutil.NewAdminRequest(http.MethodDelete, "/api/blog/p1")).AssertStatus(t, http.StatusNoContent)
	if len(f.store.ContentSettings().Blog) != 0 {
		t.Error("post not removed")
	}
	f.do(testutil.NewAdminRequest(http.MethodDelete, "/api/blog/p1")).AssertStatus(t, http.StatusNoContent)
}

func uploadRequest(t *testing.T, filename, contentType string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("fake-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return auth.WithTestUser(req, testutil.AdminUser())
}

func TestMedia_UploadPatchDelete(t *testing.T) {
	f := newFixture(t)

	rec := f.do(uploadRequest(t, "truck.jpg", "image/jpeg", map[string]string{
		"description":   "Collection truck",
		"inMediaSlider": "true",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	var item models.MediaItem
	rec.DecodeJSON(t, &item)
	if item.Name != "truck" || item.Type != models.MediaImage || !item.InMediaSlider {
		t.Errorf("item = %+v", item)
	}
	key, ok := f.media.KeyFor(item.URL)
	if !ok {
		t.Fatalf("url %q not served by the media store", item.URL)
	}
	path, _ := f.media.FullPath(key)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	rec = f.do(testutil.NewAdminJSONRequest(t, http.MethodPatch, "/api/media/"+item.ID, map[string]any{"inMediaSlider": false}))
	rec.AssertStatus(t, http.StatusOK)
	if len(models.SliderMedia(f.store.ContentSettings().Media)) != 0 {
		t.Error("item still in slider")
	}

	f.do(testutil.NewAdminJSONRequest(t, http.MethodPatch, "/api/media/nope", map[string]any{"name": "x"})).
		AssertStatus(t, http.StatusNotFound)

	f.do(testutil.NewAdminRequest(http.MethodDelete, "/api/media/"+item.ID)).AssertStatus(t, http.StatusNoContent)
	if len(f.store.ContentSettings().Media) != 0 {
		t.Error("media item not removed")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file not deleted: %v", err)
	}
}

func TestMedia_RejectsUnsupportedType(t *testing.T) {
	f := newFixture(t)
	rec := f.do(uploadRequest(t, "notes.pdf", "application/pdf", nil))
	rec.AssertStatus(t, http.StatusUnsupportedMediaType)
	if len(f.store.ContentSettings().Media) != 0 {
		t.Error("unsupported upload was added")
	}
}

func TestMedia_DeleteKeepsFileWhenNotPersisted(t *testing.T) {
	f := newFixture(t)
	rec := f.do(uploadRequest(t, "bin.png", "image/png", nil))
	rec.AssertStatus(t, http.StatusCreated)
	var item models.MediaItem
	rec.DecodeJSON(t, &item)
	key, _ := f.media.KeyFor(item.URL)
	path, _ := f.media.FullPath(key)

	f.backend.fail.Store(true)
	f.do(testutil.NewAdminRequest(http.MethodDelete, "/api/media/"+item.ID)).
		AssertStatus(t, http.StatusServiceUnavailable)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file removed although the deletion was not saved: %v", err)
	}
}

func TestUploadContentType(t *testing.T) {
	tests := []struct {
		declared, filename, want string
	}{
		{"image/png", "a.png", "image/png"},
		{"", "clip.webp", "image/webp"},
		{"application/octet-stream", "photo.JPG", "image/jpeg"},
		{"image/svg+xml; charset=utf-8", "logo.svg", "image/svg+xml"},
	}
	for _, tt := range tests {
		if got := uploadContentType(tt.declared, tt.filename); got != tt.want {
			t.Errorf("uploadContentType(%q, %q) = %q, want %q", tt.declared, tt.filename, got, tt.want)
		}
	}
}
