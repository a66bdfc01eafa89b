// Package service contains the business rules of the auction site.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"gavel/internal/cache"
	"gavel/internal/models"
	"gavel/internal/observability"
	"gavel/internal/repository"

	"gorm.io/gorm"
)

// RejectReason identifies why a bid was not accepted. Rejections are
// outcomes, not errors: the caller re-renders the listing with a message.
type RejectReason string

const (
	ReasonAuctionClosed RejectReason = "auction_closed"
	ReasonBidTooLow     RejectReason = "bid_too_low"
)

// BidOutcome is the result of a bid attempt.
type BidOutcome struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	Message  string       `json:"message"`
	Bid      *models.Bid  `json:"bid,omitempty"`
}

// CloseResult is the result of closing an auction.
type CloseResult struct {
	Listing    *models.Listing `json:"listing"`
	FinalPrice float64         `json:"final_price"`
	Winner     *models.User    `json:"winner,omitempty"`
	Message    string          `json:"message"`
}

// errStaleListing aborts a transaction whose version check lost a race.
var errStaleListing = errors.New("listing version changed")

const maxBidRetries = 3

// AuctionService owns the listing lifecycle transitions: accepting bids and
// closing auctions. It holds the *gorm.DB directly because both transitions
// are multi-statement transactions.
//
// Serialization is two-layered: a per-listing mutex orders transitions within
// this process, and an optimistic version check inside the transaction
// protects against concurrent writers in other instances. Either way the
// current bid amount only ever moves up.
type AuctionService struct {
	bidRepo repository.BidRepository
	db      *gorm.DB

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// PlaceBidInput carries the explicit caller identity; nothing is read from
// ambient request state.
type PlaceBidInput struct {
	ListingID uint
	BidderID  uint
	Amount    float64
}

// NewAuctionService creates a new AuctionService.
func NewAuctionService(bidRepo repository.BidRepository, db *gorm.DB) *AuctionService {
	return &AuctionService{
		bidRepo: bidRepo,
		db:      db,
		locks:   make(map[uint]*sync.Mutex),
	}
}

// BidHistory returns the full bid ledger of a listing, newest first.
func (s *AuctionService) BidHistory(ctx context.Context, listingID uint) ([]*models.Bid, error) {
	return s.bidRepo.ListByListing(ctx, listingID)
}

// lockListing acquires the per-listing mutex and returns its unlock func.
func (s *AuctionService) lockListing(id uint) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// PlaceBid applies the bid-acceptance rule: accept iff the listing is active
// and the amount is strictly greater than the current bid amount. On accept
// an immutable Bid record is created and the listing's current bid reference
// is swapped in the same transaction.
func (s *AuctionService) PlaceBid(ctx context.Context, in PlaceBidInput) (*BidOutcome, error) {
	if in.Amount < 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, models.NewValidationError("Bid amount must be a non-negative number")
	}

	unlock := s.lockListing(in.ListingID)
	defer unlock()

	var outcome *BidOutcome
	for attempt := 0; attempt < maxBidRetries; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var listing models.Listing
			if err := tx.Preload("CurrentBid").First(&listing, in.ListingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Listing", in.ListingID)
				}
				return models.NewInternalError(err)
			}

			if !listing.IsActive {
				outcome = &BidOutcome{
					Accepted: false,
					Reason:   ReasonAuctionClosed,
					Message:  "This auction is no longer active. Bidding is closed.",
				}
				return nil
			}

			if in.Amount <= listing.CurrentPrice() {
				outcome = &BidOutcome{
					Accepted: false,
					Reason:   ReasonBidTooLow,
					Message:  fmt.Sprintf("Your bid must be greater than the current bid of %.2f.", listing.CurrentPrice()),
				}
				return nil
			}

			bid := &models.Bid{
				Amount:    in.Amount,
				BidderID:  in.BidderID,
				ListingID: listing.ID,
			}
			if err := tx.Create(bid).Error; err != nil {
				return models.NewInternalError(err)
			}

			// Compare-and-swap on the version counter. Zero rows affected
			// means another writer won; abort and retry with a fresh read.
			res := tx.Model(&models.Listing{}).
				Where("id = ? AND version = ?", listing.ID, listing.Version).
				Updates(map[string]any{
					"current_bid_id": bid.ID,
					"version":        listing.Version + 1,
				})
			if res.Error != nil {
				return models.NewInternalError(res.Error)
			}
			if res.RowsAffected == 0 {
				return errStaleListing
			}

			outcome = &BidOutcome{
				Accepted: true,
				Message:  "Your bid was successfully placed.",
				Bid:      bid,
			}
			return nil
		})

		if errors.Is(err, errStaleListing) {
			observability.BidConflictRetries.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}

		if outcome.Accepted {
			observability.BidsAccepted.Inc()
			cache.InvalidateListing(ctx, in.ListingID)
		} else {
			observability.BidsRejected.WithLabelValues(string(outcome.Reason)).Inc()
		}
		return outcome, nil
	}

	return nil, models.NewInternalError(fmt.Errorf("bid on listing %d: gave up after %d version conflicts", in.ListingID, maxBidRetries))
}

// Close flips a listing to its terminal state. Only the owner may close.
// Closing an already-closed listing is an idempotent no-op: the observable
// state is unchanged and no write is issued.
func (s *AuctionService) Close(ctx context.Context, listingID, callerID uint) (*CloseResult, error) {
	unlock := s.lockListing(listingID)
	defer unlock()

	var result *CloseResult
	for attempt := 0; attempt < maxBidRetries; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var listing models.Listing
			if err := tx.Preload("CurrentBid").Preload("CurrentBid.Bidder").First(&listing, listingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Listing", listingID)
				}
				return models.NewInternalError(err)
			}

			if listing.OwnerID != callerID {
				return models.NewForbiddenError("Only the owner can close this auction")
			}

			result = &CloseResult{
				Listing:    &listing,
				FinalPrice: listing.CurrentPrice(),
			}
			if listing.CurrentBid != nil {
				result.Winner = &listing.CurrentBid.Bidder
			}

			if !listing.IsActive {
				result.Message = "This auction is already closed."
				return nil
			}

			res := tx.Model(&models.Listing{}).
				Where("id = ? AND version = ?", listing.ID, listing.Version).
				Updates(map[string]any{
					"is_active": false,
					"version":   listing.Version + 1,
				})
			if res.Error != nil {
				return models.NewInternalError(res.Error)
			}
			if res.RowsAffected == 0 {
				return errStaleListing
			}

			listing.IsActive = false
			result.Message = "Congratulations on the successful sale! Your item has been sold at the auction."
			observability.ListingsClosed.Inc()
			return nil
		})

		if errors.Is(err, errStaleListing) {
			// A concurrent accepted bid bumped the version between our read
			// and the write; re-read and try again.
			observability.BidConflictRetries.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}

		cache.InvalidateListing(ctx, listingID)
		return result, nil
	}

	return nil, models.NewInternalError(fmt.Errorf("close listing %d: gave up after %d version conflicts", listingID, maxBidRetries))
}
