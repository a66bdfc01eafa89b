package repository

import (
	"context"

	"gavel/internal/models"
	"gavel/internal/observability"

	"gorm.io/gorm"
)

// BidRepository defines persistence operations for the append-only bid ledger.
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	ListByListing(ctx context.Context, listingID uint) ([]*models.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

// NewBidRepository returns a new BidRepository implementation.
func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	defer observability.TrackQuery("create", "bids")()
	if err := r.db.WithContext(ctx).Create(bid).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByListing returns the full bid history of a listing, newest first.
func (r *bidRepository) ListByListing(ctx context.Context, listingID uint) ([]*models.Bid, error) {
	defer observability.TrackQuery("list", "bids")()
	var bids []*models.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC").
		Find(&bids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bids, nil
}
