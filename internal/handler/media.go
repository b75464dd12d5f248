package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusmart/campusmart/internal/storage"
)

// MediaHandler serves uploaded listing images from the object store.
type MediaHandler struct {
	store *storage.Store
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(store *storage.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// Serve handles GET /media/item-images/{key}.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	f, err := h.store.Open(storage.BucketItemImages, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// Uploaded objects never change under a key, so clients may cache hard.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, key, info.ModTime(), f)
}
