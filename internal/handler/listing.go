package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/notify"
	"github.com/campusmart/campusmart/internal/service"
)

// ListingPoster is the slice of ListingService the handler uses.
type ListingPoster interface {
	Create(ctx context.Context, input service.CreateListingInput) (*model.Listing, error)
}

// ListingHandler handles the post-item form.
type ListingHandler struct {
	svc           ListingPoster
	notices       *notify.Center
	logger        *slog.Logger
	maxUploadSize int64
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc ListingPoster, notices *notify.Center, logger *slog.Logger, maxUploadSize int64) *ListingHandler {
	return &ListingHandler{
		svc:           svc,
		notices:       notices,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Create handles POST /listings: the post-item flow. If an image was
// attached it is uploaded first; an upload failure aborts the flow before
// any insert. On success the redirect to / re-renders the grid.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	key := noticeKey(w, r)

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		h.notices.Notify(key, service.ErrNotAuthenticated.Error(), notify.SeverityError)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.notices.Notify(key, "Upload too large or malformed form", notify.SeverityError)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	input := service.CreateListingInput{
		Title:           r.PostFormValue("title"),
		Category:        r.PostFormValue("category"),
		TransactionKind: r.PostFormValue("transaction_kind"),
		Subject:         r.PostFormValue("subject"),
		Course:          r.PostFormValue("course"),
		PriceInput:      r.PostFormValue("price"),
		Description:     r.PostFormValue("description"),
		OwnerID:         identity.UserID,
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		input.Image = &service.ImageUpload{
			Filename: header.Filename,
			Data:     file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// No image attached.
	default:
		h.notices.Notify(key, "Could not read the attached image", notify.SeverityError)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	listing, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.notices.Notify(key, listingErrorText(err), notify.SeverityError)
		if errors.Is(err, service.ErrImageUpload) {
			h.logger.Error("image upload failed", "error", err, "request_id", requestID(r))
		} else if !isListingUserError(err) {
			h.logger.Error("listing creation failed", "error", err, "request_id", requestID(r))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.logger.Info("listing_created",
		"listing_id", listing.ID,
		"owner_id", listing.OwnerID,
		"transaction_kind", string(listing.TransactionKind),
		"has_image", listing.HasImage(),
	)

	h.notices.Notify(key, "Item posted successfully", notify.SeveritySuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// listingErrorText maps listing errors to the notification message.
func listingErrorText(err error) string {
	switch {
	case isListingUserError(err):
		return err.Error()
	case errors.Is(err, service.ErrImageUpload):
		return "Image upload failed"
	default:
		return "Failed to post item. Please try again."
	}
}

// isListingUserError reports whether the error was caused by the submitted
// form rather than a server fault.
func isListingUserError(err error) bool {
	return errors.Is(err, service.ErrTitleRequired) ||
		errors.Is(err, service.ErrInvalidTransactionKind) ||
		errors.Is(err, service.ErrInvalidPrice) ||
		errors.Is(err, service.ErrSubmissionInFlight) ||
		errors.Is(err, service.ErrNotAuthenticated)
}
