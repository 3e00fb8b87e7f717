package storage

import (
	"context"

	"aptcli/pkg/contracts/domain"
)

// ListingWriter persists cleaned listings to an external store.
type ListingWriter interface {
	// ReplaceListings clears the store and loads the given listings.
	ReplaceListings(ctx context.Context, listings []domain.Listing) error
	Close() error
}
