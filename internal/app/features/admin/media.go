package admin

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dalemusser/greencircuit/internal/app/store/audit"
	"github.com/dalemusser/greencircuit/internal/app/system/contentstore"
	"github.com/dalemusser/greencircuit/internal/app/system/mediastore"
	"github.com/dalemusser/greencircuit/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

// UploadMedia handles POST /admin/api/media. The form carries the file in
// "file" plus optional name, description and inMediaSlider fields.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if header.Size > h.MaxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		writeError(w, http.StatusUnsupportedMediaType, "only images and videos can be uploaded")
		return
	}

	inSlider := false
	if v := strings.TrimSpace(r.FormValue("inMediaSlider")); v != "" {
		inSlider, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "inMediaSlider must be true or false")
			return
		}
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	up, err := mediastore.Upload(r.Context(), h.Media, header.Filename, file, header.Size, contentType)
	if err != nil {
		h.Log.Error("media upload failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	item := models.MediaItem{
		ID:            h.newID(),
		URL:           up.URL,
		Name:          name,
		Description:   strings.TrimSpace(r.FormValue("description")),
		Type:          models.MediaTypeFor(contentType),
		InMediaSlider: inSlider,
	}
	err = h.Store.AddMediaItem(r.Context(), item)
	h.audit(r, audit.EventMediaUploaded, item.ID, map[string]string{
		"name": item.Name,
		"key":  up.Key,
		"size": strconv.FormatInt(up.Size, 10),
	}, err)
	if err != nil {
		if !errors.Is(err, contentstore.ErrPersistence) {
			h.deleteFile(r, up.Key)
		}
		h.writeStoreError(w, r, "add media item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func uploadContentType(declared, filename string) string {
	ct := declared
	if ct == "" || ct == "application/octet-stream" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(ct)
}

// PatchMedia handles PATCH /admin/api/media/{id}.
func (h *Handler) PatchMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.MediaPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.Store.UpdateMediaItem(r.Context(), id, patch)
	h.audit(r, audit.EventMediaUpdated, id, nil, err)
	if err != nil {
		h.writeStoreError(w, r, "update media item", err)
		return
	}
	for _, m := range h.Store.ContentSettings().Media {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMedia handles DELETE /admin/api/media/{id}. The stored file is
// removed only after the removal has been persisted.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var url string
	for _, m := range h.Store.ContentSettings().Media {
		if m.ID == id {
			url = m.URL
			break
		}
	}

	err := h.Store.RemoveMediaItem(r.Context(), id)
	h.audit(r, audit.EventMediaRemoved, id, map[string]string{"url": url}, err)
	if err != nil {
		h.writeStoreError(w, r, "remove media item", err)
		return
	}

	if url != "" {
		if key, ok := h.Media.KeyFor(url); ok {
			h.deleteFile(r, key)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteFile(r *http.Request, key string) {
	if err := h.Media.Delete(r.Context(), key); err != nil {
		h.Log.Warn("could not delete media file", zap.String("key", key), zap.Error(err))
	}
}
