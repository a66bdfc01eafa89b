package service

import (
	"context"
	"strings"

	"gavel/internal/models"
	"gavel/internal/observability"
	"gavel/internal/repository"
	"gavel/internal/validation"

	"gorm.io/gorm"
)

// ListingService covers the listing registry: creation, lookup, category
// filtering, and watchlist membership.
type ListingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
}

// CreateListingInput carries the form fields of a new listing.
type CreateListingInput struct {
	OwnerID       uint
	Title         string
	Description   string
	ImageURL      string
	Category      string
	StartingPrice float64
}

// NewListingService creates a new ListingService.
func NewListingService(listingRepo repository.ListingRepository, categoryRepo repository.CategoryRepository, db *gorm.DB) *ListingService {
	return &ListingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

// Create makes a new active listing. The starting price is recorded as an
// opening bid authored by the owner, so the current price is always backed
// by a bid record.
func (s *ListingService) Create(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	if err := validation.ValidateListingTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, models.NewValidationError("Category is required")
	}
	if in.StartingPrice < 0 {
		return nil, models.NewValidationError("Starting price must be non-negative")
	}

	category, err := s.categoryRepo.GetByName(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing = models.Listing{
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			OwnerID:     in.OwnerID,
			CategoryID:  category.ID,
			IsActive:    true,
		}
		if err := tx.Create(&listing).Error; err != nil {
			return models.NewInternalError(err)
		}

		opening := models.Bid{
			Amount:    in.StartingPrice,
			BidderID:  in.OwnerID,
			ListingID: listing.ID,
		}
		if err := tx.Create(&opening).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&listing).Update("current_bid_id", opening.ID).Error; err != nil {
			return models.NewInternalError(err)
		}
		listing.CurrentBidID = &opening.ID
		listing.CurrentBid = &opening
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.ListingsCreated.Inc()
	return s.listingRepo.GetByID(ctx, listing.ID)
}

// Get returns a listing by id.
func (s *ListingService) Get(ctx context.Context, id uint) (*models.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

// ListActive returns active listings, optionally filtered by exact category
// name. An empty name means no filter; an unknown name is a not-found error.
func (s *ListingService) ListActive(ctx context.Context, categoryName string, limit, offset int) ([]*models.Listing, error) {
	var categoryID uint
	if strings.TrimSpace(categoryName) != "" {
		category, err := s.categoryRepo.GetByName(ctx, categoryName)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
	}
	return s.listingRepo.ListActive(ctx, categoryID, limit, offset)
}

// Categories returns all known categories.
func (s *ListingService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Watchlist returns the listings the user watches.
func (s *ListingService) Watchlist(ctx context.Context, userID uint) ([]*models.Listing, error) {
	return s.listingRepo.ListWatchedBy(ctx, userID)
}

// IsWatching reports whether the user watches the listing.
func (s *ListingService) IsWatching(ctx context.Context, listingID, userID uint) (bool, error) {
	return s.listingRepo.IsWatchedBy(ctx, listingID, userID)
}

// SetWatching adds or removes the user from the listing's watcher set.
// Both directions are idempotent.
func (s *ListingService) SetWatching(ctx context.Context, listingID, userID uint, watch bool) error {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return err
	}
	if watch {
		return s.listingRepo.AddWatcher(ctx, listingID, userID)
	}
	return s.listingRepo.RemoveWatcher(ctx, listingID, userID)
}
