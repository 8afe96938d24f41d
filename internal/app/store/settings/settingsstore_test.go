package settingsstore_test

import (
	"testing"
	"time"

	settingsstore "github.com/dalemusser/greencircuit/internal/app/store/settings"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/greencircuit/internal/testutil"
)

func TestStore_LoadSite_NoSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.LoadSite(ctx, "main")
	if err != nil {
		t.Fatalf("LoadSite failed: %v", err)
	}
	if got != nil {
		t.Errorf("LoadSite: got %+v, want nil", got)
	}

	exists, err := store.Exists(ctx, "main")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists: got true for unsaved key")
	}
}

func TestStore_SaveSite_Upserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings := models.DefaultSiteSettings()
	settings.SiteName = "My Site"
	if err := store.SaveSite(ctx, "main", settings); err != nil {
		t.Fatalf("first SaveSite failed: %v", err)
	}

	settings.PrimaryColor = "#3498DB"
	if err := store.SaveSite(ctx, "main", settings); err != nil {
		t.Fatalf("second SaveSite failed: %v", err)
	}

	count, err := db.Collection(settingsstore.SiteCollection).CountDocuments(ctx, map[string]any{"key": "main"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("documents for key: got %d, want 1", count)
	}

	got, err := store.LoadSite(ctx, "main")
	if err != nil {
		t.Fatalf("LoadSite failed: %v", err)
	}
	if got.SiteName != "My Site" {
		t.Errorf("SiteName: got %q, want %q", got.SiteName, "My Site")
	}
	if got.PrimaryColor != "#3498DB" {
		t.Errorf("PrimaryColor: got %q, want #3498DB", got.PrimaryColor)
	}
	if len(got.Navigation) != len(settings.Navigation) {
		t.Errorf("Navigation: got %d items, want %d", len(got.Navigation), len(settings.Navigation))
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt not stored")
	}
}

func TestStore_SaveContent_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	content := models.DefaultContentSettings()
	content.Blog = []models.BlogPost{
		{ID: "p1", Title: "Why recycle phones", Status: models.PostPublished, PublishedAt: &published},
		{ID: "p2", Title: "Draft", Status: models.PostDraft},
	}
	content.Media = []models.MediaItem{
		{ID: "m1", URL: "/uploads/m1.jpg", Name: "Facility", Type: models.MediaImage, InMediaSlider: true},
	}

	if err := store.SaveContent(ctx, "main", content); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	got, err := store.LoadContent(ctx, "main")
	if err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}
	if got == nil {
		t.Fatal("LoadContent: got nil")
	}
	if len(got.Blog) != 2 || got.Blog[0].ID != "p1" || got.Blog[1].ID != "p2" {
		t.Errorf("Blog order not preserved: %+v", got.Blog)
	}
	if !got.Blog[0].PublishedAt.Equal(published) {
		t.Errorf("PublishedAt: got %v, want %v", got.Blog[0].PublishedAt, published)
	}
	if len(got.Media) != 1 || !got.Media[0].InMediaSlider {
		t.Errorf("Media: got %+v", got.Media)
	}
	if got.Hero == nil || got.Hero.Heading != content.Hero.Heading {
		t.Errorf("Hero: got %+v", got.Hero)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SaveSite(ctx, "main", models.DefaultSiteSettings()); err != nil {
		t.Fatalf("SaveSite failed: %v", err)
	}
	if err := store.SaveContent(ctx, "main", models.DefaultContentSettings()); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}
	if err := store.Delete(ctx, "main"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	site, _ := store.LoadSite(ctx, "main")
	content, _ := store.LoadContent(ctx, "main")
	if site != nil || content != nil {
		t.Errorf("documents remain after Delete: site=%v content=%v", site, content)
	}
}
