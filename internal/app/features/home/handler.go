package home

import (
	"net/http"

	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// latestPosts is how many published posts the home page teases.
const latestPosts = 3

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Store *contentstore.Store
	Log   *zap.Logger
}

func NewHandler(store *contentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	Hero         *models.HeroSection
	Mission      *models.MissionSection
	Achievements *models.AchievementsSection
	Videos       *models.VideosSection
	Slider       []models.MediaItem
	LatestPosts  []models.BlogPost
}

// buildHomeData renders from a single snapshot so every block on the page
// reflects the same content version.
func buildHomeData(r *http.Request, snap contentstore.Snapshot) homeData {
	c := snap.Content
	defaults := models.DefaultContentSettings()

	data := homeData{
		BaseVM:       viewdata.FromSnapshot(r, snap, "Home", "/"),
		Hero:         c.Hero,
		Mission:      c.Mission,
		Achievements: c.Achievements,
		Videos:       c.Videos,
		Slider:       models.SliderMedia(c.Media),
	}
	if data.Hero == nil {
		data.Hero = defaults.Hero
	}
	if data.Mission == nil {
		data.Mission = defaults.Mission
	}

	posts := models.PublishedPosts(c.Blog)
	if len(posts) > latestPosts {
		posts = posts[:latestPosts]
	}
	data.LatestPosts = posts
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "home", buildHomeData(r, h.Store.Snapshot()))
}
