package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/campusmart/campusmart/internal/metrics"
	"github.com/campusmart/campusmart/internal/model"
	"github.com/campusmart/campusmart/internal/repository"
	"github.com/campusmart/campusmart/internal/storage"
)

// Listing service errors.
var (
	ErrNotAuthenticated       = errors.New("you must be logged in to post an item")
	ErrTitleRequired          = errors.New("title is required")
	ErrInvalidTransactionKind = errors.New("transaction kind must be sell, exchange or donate")
	ErrInvalidPrice           = errors.New("price must be a non-negative number")
	ErrImageUpload            = errors.New("image upload failed")
	ErrSubmissionInFlight     = errors.New("a submission is already in progress")
)

const maxTitleLength = 200

// ListingService handles loading and posting of marketplace listings.
type ListingService struct {
	repo    *repository.Repository
	store   *storage.Store
	metrics metrics.Recorder

	// One submission per owner at a time. A double-click settles as one
	// insert plus one ErrSubmissionInFlight instead of two inserts.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewListingService creates a new ListingService.
func NewListingService(repo *repository.Repository, store *storage.Store, recorder metrics.Recorder) *ListingService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ListingService{
		repo:     repo,
		store:    store,
		metrics:  recorder,
		inFlight: make(map[string]struct{}),
	}
}

// List returns all listings, newest first.
func (s *ListingService) List(ctx context.Context) ([]*model.Listing, error) {
	start := time.Now()

	listings, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveListingLoadDuration(time.Since(start))

	return listings, nil
}

// ImageUpload carries an uploaded image file through the post-item flow.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// CreateListingInput defines input for posting an item.
// PriceInput is the raw form value; it is only consulted when
// TransactionKind is "sell".
type CreateListingInput struct {
	Title           string
	Category        string
	TransactionKind string
	Subject         string
	Course          string
	PriceInput      string
	Description     string
	OwnerID         string
	Image           *ImageUpload
}

// Create runs the post-item flow: optional image upload, then the listing
// insert. An upload failure aborts the flow before any insert. An insert
// failure after a successful upload deletes the just-stored object so no
// orphan remains.
func (s *ListingService) Create(ctx context.Context, input CreateListingInput) (*model.Listing, error) {
	if input.OwnerID == "" {
		return nil, ErrNotAuthenticated
	}

	if err := s.acquire(input.OwnerID); err != nil {
		return nil, err
	}
	defer s.release(input.OwnerID)

	listing, err := s.buildListing(input)
	if err != nil {
		return nil, err
	}

	var imageKey string
	if input.Image != nil {
		imageKey = storage.NewObjectKey(input.Image.Filename)
		if err := s.store.Upload(storage.BucketItemImages, imageKey, input.Image.Data); err != nil {
			s.metrics.IncImageUploadFailed()
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		s.metrics.IncImageUploaded()

		url := s.store.PublicURL(storage.BucketItemImages, imageKey)
		listing.ImageURL = &url
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		s.metrics.IncListingCreateFailed()
		if imageKey != "" {
			// Compensating delete: the upload succeeded but the listing
			// never came to exist, so the object must not outlive the flow.
			if delErr := s.store.Delete(storage.BucketItemImages, imageKey); delErr != nil {
				return nil, errors.Join(err, delErr)
			}
			s.metrics.IncImageOrphanReclaimed()
		}
		return nil, err
	}

	s.metrics.IncListingCreated()

	return listing, nil
}

// buildListing validates form fields and shapes the record to insert.
// Price is set only for "sell" listings; for any other kind the price
// input is ignored entirely, whatever its value.
func (s *ListingService) buildListing(input CreateListingInput) (*model.Listing, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	kind := model.TransactionKind(input.TransactionKind)
	if !kind.IsValid() {
		return nil, ErrInvalidTransactionKind
	}

	listing := &model.Listing{
		ID:              ulid.Make().String(),
		Title:           title,
		Category:        strings.TrimSpace(input.Category),
		TransactionKind: kind,
		Subject:         strings.TrimSpace(input.Subject),
		Course:          strings.TrimSpace(input.Course),
		Description:     strings.TrimSpace(input.Description),
		OwnerID:         input.OwnerID,
	}

	if kind.HasPrice() {
		price, err := strconv.ParseInt(strings.TrimSpace(input.PriceInput), 10, 64)
		if err != nil || price < 0 {
			return nil, ErrInvalidPrice
		}
		listing.Price = &price
	}

	return listing, nil
}

// acquire marks a submission in flight for the owner.
func (s *ListingService) acquire(ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[ownerID]; busy {
		return ErrSubmissionInFlight
	}
	s.inFlight[ownerID] = struct{}{}
	return nil
}

// release clears the in-flight mark once the submission settles.
func (s *ListingService) release(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, ownerID)
}
