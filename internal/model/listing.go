// Package model defines domain entities for the application.
package model

import "time"

// TransactionKind describes how an item changes hands.
type TransactionKind string

const (
	TransactionSell     TransactionKind = "sell"
	TransactionExchange TransactionKind = "exchange"
	TransactionDonate   TransactionKind = "donate"
)

// IsValid checks if the transaction kind is one of the known values.
func (k TransactionKind) IsValid() bool {
	return k == TransactionSell || k == TransactionExchange || k == TransactionDonate
}

// HasPrice reports whether a price is meaningful for this kind.
// Price must never be stored for exchange or donate listings.
func (k TransactionKind) HasPrice() bool {
	return k == TransactionSell
}

// Listing represents a posted marketplace item.
// Price is nil unless TransactionKind is "sell". ImageURL is nil when the
// listing was posted without an image. CreatedAt is assigned by the store.
type Listing struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	TransactionKind TransactionKind `json:"transaction_kind"`
	Subject         string          `json:"subject,omitempty"`
	Course          string          `json:"course,omitempty"`
	Price           *int64          `json:"price,omitempty"`
	Description     string          `json:"description,omitempty"`
	ImageURL        *string         `json:"image_url,omitempty"`
	OwnerID         string          `json:"owner_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// HasImage reports whether the listing carries an image URL.
func (l *Listing) HasImage() bool {
	return l.ImageURL != nil && *l.ImageURL != ""
}
