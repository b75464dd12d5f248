package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusmart/campusmart/internal/model"
)

// Common errors for listing repository operations.
var (
	ErrListingNotFound = errors.New("listing not found")
)

// CreateListing inserts a new listing into the database.
// CreatedAt is assigned by the store (NOW()) so listing order is governed
// by a single clock; the assigned value is scanned back into the model.
func (r *Repository) CreateListing(ctx context.Context, listing *model.Listing) error {
	query := `
		INSERT INTO items (id, title, category, transaction_kind, subject, course, price, description, image_url, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		listing.ID,
		listing.Title,
		listing.Category,
		listing.TransactionKind,
		listing.Subject,
		listing.Course,
		listing.Price,
		listing.Description,
		listing.ImageURL,
		listing.OwnerID,
	).Scan(&listing.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// ListListings retrieves all listings ordered by creation time, newest
// first. ID is the tiebreaker so ordering stays total when two rows share a
// timestamp. No pagination: the grid always shows the full set.
func (r *Repository) ListListings(ctx context.Context) ([]*model.Listing, error) {
	query := `
		SELECT id, title, category, transaction_kind, subject, course, price, description, image_url, owner_id, created_at
		FROM items
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// GetListingByID retrieves a single listing by its ID.
func (r *Repository) GetListingByID(ctx context.Context, id string) (*model.Listing, error) {
	query := `
		SELECT id, title, category, transaction_kind, subject, course, price, description, image_url, owner_id, created_at
		FROM items
		WHERE id = $1
	`

	listing, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID: %w", err)
	}

	return listing, nil
}

// scanListing scans a row into a Listing model.
func scanListing(row pgx.Row) (*model.Listing, error) {
	var listing model.Listing
	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Category,
		&listing.TransactionKind,
		&listing.Subject,
		&listing.Course,
		&listing.Price,
		&listing.Description,
		&listing.ImageURL,
		&listing.OwnerID,
		&listing.CreatedAt,
	)
	return &listing, err
}
