package repository

import (
	"context"
	"errors"

	"gavel/internal/cache"
	"gavel/internal/models"
	"gavel/internal/observability"

	"gorm.io/gorm"
)

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	ListActive(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Listing, error)
	ListWatchedBy(ctx context.Context, userID uint) ([]*models.Listing, error)
	IsWatchedBy(ctx context.Context, listingID, userID uint) (bool, error)
	AddWatcher(ctx context.Context, listingID, userID uint) error
	RemoveWatcher(ctx context.Context, listingID, userID uint) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns a new ListingRepository implementation.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// listingPreloads attaches the relations every read path needs: the owner,
// the category, and the current bid with its bidder.
func listingPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Category").
		Preload("CurrentBid").
		Preload("CurrentBid.Bidder")
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	defer observability.TrackQuery("create", "listings")()
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	defer observability.TrackQuery("get", "listings")()
	var listing models.Listing
	err := cache.Aside(ctx, cache.ListingKey(id), &listing, cache.ListingTTL, func() error {
		return listingPreloads(r.db.WithContext(ctx)).First(&listing, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &listing, nil
}

func (r *listingRepository) ListActive(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Listing, error) {
	defer observability.TrackQuery("list", "listings")()
	var listings []*models.Listing
	q := listingPreloads(r.db.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Find(&listings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (r *listingRepository) ListWatchedBy(ctx context.Context, userID uint) ([]*models.Listing, error) {
	defer observability.TrackQuery("list_watched", "listings")()
	var listings []*models.Listing
	err := listingPreloads(r.db.WithContext(ctx)).
		Joins("JOIN watchlists ON watchlists.listing_id = listings.id").
		Where("watchlists.user_id = ?", userID).
		Order("listings.created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (r *listingRepository) IsWatchedBy(ctx context.Context, listingID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("watchlists").
		Where("listing_id = ? AND user_id = ?", listingID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AddWatcher is idempotent: adding an already-watching user is a no-op.
func (r *listingRepository) AddWatcher(ctx context.Context, listingID, userID uint) error {
	watched, err := r.IsWatchedBy(ctx, listingID, userID)
	if err != nil {
		return err
	}
	if watched {
		return nil
	}
	err = r.db.WithContext(ctx).
		Model(&models.Listing{ID: listingID}).
		Association("Watchers").
		Append(&models.User{ID: userID})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateWatchlist(ctx, userID)
	return nil
}

// RemoveWatcher is idempotent: removing an absent member is a no-op.
func (r *listingRepository) RemoveWatcher(ctx context.Context, listingID, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Listing{ID: listingID}).
		Association("Watchers").
		Delete(&models.User{ID: userID})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateWatchlist(ctx, userID)
	return nil
}
