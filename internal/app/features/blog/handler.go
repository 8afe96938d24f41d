// Package blog serves the public blog: a list of published posts and one
// page per post.
package blog

import (
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/greencircuit/internal/app/features/errors"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/markdown"
	"github.com/dalemusser/greencircuit/internal/app/system/viewdata"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *contentstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(store *contentstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: store, ErrLog: errLog, Log: logger}
}

type listData struct {
	viewdata.BaseVM
	Posts []models.BlogPost
}

type postData struct {
	viewdata.BaseVM
	Post models.BlogPost
	Body template.HTML
}

// ServeList handles GET /blog.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	templates.Render(w, r, "blog_list", listData{
		BaseVM: viewdata.FromSnapshot(r, snap, "Blog", "/"),
		Posts:  models.PublishedPosts(snap.Content.Blog),
	})
}

// ServePost handles GET /blog/{id}. Drafts are indistinguishable from
// missing posts.
func (h *Handler) ServePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := h.Store.Snapshot()

	post, ok := findPublished(snap.Content.Blog, id)
	if !ok {
		uierrors.RenderNotFound(w, r, "/blog")
		return
	}

	body, err := markdown.Render(post.Content)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render blog post", err, "This post could not be displayed.", "/blog")
		return
	}

	templates.Render(w, r, "blog_post", postData{
		BaseVM: viewdata.FromSnapshot(r, snap, post.Title, "/blog"),
		Post:   post,
		Body:   body,
	})
}

func findPublished(posts []models.BlogPost, id string) (models.BlogPost, bool) {
	p, ok := models.FindPost(posts, id)
	if !ok || !p.IsPublished() {
		return models.BlogPost{}, false
	}
	return p, true
}
