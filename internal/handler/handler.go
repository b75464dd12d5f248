// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart/internal/middleware"
)

// noticeCookieName identifies the browser for notification delivery across
// the POST-redirect-GET cycle. It carries no identity; sessions use their
// own cookie.
const noticeCookieName = "campusmart_notice"

// Handler wraps shared fallback handlers.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "page not found", http.StatusNotFound)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// noticeKey returns the notification key for this browser, setting the
// cookie if it does not exist yet. Used by action handlers that are about
// to post a notice.
func noticeKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(noticeCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	key := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

// requestID is shorthand for the request ID injected by the middleware.
func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// currentNoticeKey returns the notification key without setting a cookie.
// Used by the page handler, which only reads notices.
func currentNoticeKey(r *http.Request) string {
	if c, err := r.Cookie(noticeCookieName); err == nil {
		return c.Value
	}
	return ""
}
