package admin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func newID() string { return uuid.NewString() }

type stateResponse struct {
	Version uint64                 `json:"version"`
	Site    models.SiteSettings    `json:"site"`
	Content models.ContentSettings `json:"content"`
}

// ServeState handles GET /admin/api/state. Unlike the public state it
// includes drafts and media outside the slider.
func (h *Handler) ServeState(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		Version: snap.Version,
		Site:    snap.Site,
		Content: snap.Content,
	})
}

// PatchSite handles PATCH /admin/api/site. Absent fields keep their value.
func (h *Handler) PatchSite(w http.ResponseWriter, r *http.Request) {
	var patch models.SitePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.Store.UpdateSiteSettings(r.Context(), patch)
	h.audit(r, audit.EventSiteSettingsUpdated, "site", nil, err)
	if err != nil {
		h.writeStoreError(w, r, "update site settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Store.SiteSettings())
}

// PutSection handles PUT /admin/api/sections/{section}. The body is the
// whole section; a JSON null clears an optional section.
func (h *Handler) PutSection(w http.ResponseWriter, r *http.Request) {
	section, ok := models.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown section")
		return
	}

	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	value, err := decodeSection(section, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.Store.UpdateSection(r.Context(), section, value)
	h.audit(r, audit.EventSectionUpdated, string(section), nil, err)
	if err != nil {
		h.writeStoreError(w, r, "update section", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Store.ContentSettings())
}

// decodeSection turns raw into the value UpdateSection expects for section.
func decodeSection(section models.Section, raw json.RawMessage) (any, error) {
	switch section {
	case models.SectionHero:
		return decodeStrict[*models.HeroSection](raw)
	case models.SectionMission:
		return decodeStrict[*models.MissionSection](raw)
	case models.SectionAchievements:
		return decodeStrict[*models.AchievementsSection](raw)
	case models.SectionVideos:
		return decodeStrict[*models.VideosSection](raw)
	case models.SectionBlog:
		return decodeStrict[[]models.BlogPost](raw)
	case models.SectionMedia:
		return decodeStrict[[]models.MediaItem](raw)
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

func decodeStrict[T any](raw json.RawMessage) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid section body: %w", err)
	}
	return v, nil
}

// CreatePost handles POST /admin/api/blog. A missing id is generated and a
// missing status means Draft.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if err := decodeJSON(w, r, &post); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if post.ID == "" {
		post.ID = h.newID()
	}
	h.savePost(w, r, post, http.StatusCreated)
}

// UpdatePost handles PUT /admin/api/blog/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var post models.BlogPost
	if err := decodeJSON(w, r, &post); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if post.ID != "" && post.ID != id {
		writeError(w, http.StatusBadRequest, "post id does not match the URL")
		return
	}
	existing, ok := models.FindPost(h.Store.ContentSettings().Blog, id)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	post.ID = id
	if post.PublishedAt == nil && post.IsPublished() {
		post.PublishedAt = existing.PublishedAt
	}
	h.savePost(w, r, post, http.StatusOK)
}

func (h *Handler) savePost(w http.ResponseWriter, r *http.Request, post models.BlogPost, status int) {
	if post.Status == "" {
		post.Status = models.PostDraft
	}
	if post.IsPublished() && post.PublishedAt == nil {
		now := h.now().UTC()
		post.PublishedAt = &now
	}

	err := h.Store.AddBlogPost(r.Context(), post)
	h.audit(r, audit.EventBlogPostSaved, post.ID, map[string]string{
		"title":  post.Title,
		"status": string(post.Status),
	}, err)
	if err != nil {
		h.writeStoreError(w, r, "save blog post", err)
		return
	}
	writeJSON(w, status, post)
}

// DeletePost handles DELETE /admin/api/blog/{id}. Unknown ids succeed.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.Store.RemoveBlogPost(r.Context(), id)
	h.audit(r, audit.EventBlogPostRemoved, id, nil, err)
	if err != nil {
		h.writeStoreError(w, r, "remove blog post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// audit records edits that reached the store. Rejected input is not an
// event; a persistence failure is, since the change is live.
func (h *Handler) audit(r *http.Request, eventType, target string, details map[string]string, err error) {
	if err != nil && !errors.Is(err, contentstore.ErrPersistence) {
		return
	}
	h.Audit.ContentChanged(r.Context(), r, actor(r), eventType, target, details, err)
}
