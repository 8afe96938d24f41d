package pages

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
)

func TestBuildAboutData(t *testing.T) {
	req := httptest.NewRequest("GET", "/about", nil)

	t.Run("defaults", func(t *testing.T) {
		data := buildAboutData(req, contentstore.Snapshot{Site: models.DefaultSiteSettings()})
		if data.Mission == nil || data.Mission.Heading == "" {
			t.Error("expected the default mission")
		}
		if data.Title != "About us" {
			t.Errorf("Title = %q", data.Title)
		}
	})

	t.Run("stored mission", func(t *testing.T) {
		snap := contentstore.Snapshot{
			Site: models.DefaultSiteSettings(),
			Content: models.ContentSettings{
				Mission: &models.MissionSection{Heading: "Zero landfill"},
			},
		}
		if got := buildAboutData(req, snap).Mission.Heading; got != "Zero landfill" {
			t.Errorf("Mission.Heading = %q", got)
		}
	})
}
