package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/notify"
	"github.com/campusmart/campusmart/internal/web"
)

// ListingLoader is the slice of ListingService the page handler uses.
type ListingLoader interface {
	List(ctx context.Context) ([]*model.Listing, error)
}

// PageHandler renders the marketplace page.
type PageHandler struct {
	listings ListingLoader
	renderer *web.Renderer
	notices  *notify.Center
	logger   *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(listings ListingLoader, renderer *web.Renderer, notices *notify.Center, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		listings: listings,
		renderer: renderer,
		notices:  notices,
		logger:   logger,
	}
}

// Home handles GET /. The rendered page is a pure function of session
// state: a logged-in request loads and shows the listing grid, a guest
// request shows the auth forms and an empty grid without touching the
// store.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := web.PageData{
		Identity: auth.IdentityFromContext(r.Context()),
	}

	key := currentNoticeKey(r)

	if data.Identity != nil {
		listings, err := h.listings.List(r.Context())
		if err != nil {
			h.logger.Error("listing load failed", "error", err, "request_id", requestID(r))
			data.LoadFailed = true
			if key != "" {
				h.notices.Notify(key, "Failed to load items", notify.SeverityError)
			}
		} else {
			data.Listings = listings
		}
	}

	if key != "" {
		if notice, ok := h.notices.Current(key); ok {
			data.Notice = &notice
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderPage(w, data); err != nil {
		h.logger.Error("page render failed", "error", err, "request_id", requestID(r))
	}
}
