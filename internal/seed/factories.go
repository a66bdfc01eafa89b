// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gavel/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with a fake identity and the shared demo
// password.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Demo-Password-123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username := strings.ToLower(gofakeit.Username())
	user := &models.User{
		Username: fmt.Sprintf("%s%d", username, f.rand.Intn(10000)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateListing persists a listing owned by the given user, together with its
// owner-authored opening bid.
func (f *Factory) CreateListing(owner *models.User, category *models.Category, overrides ...func(*models.Listing)) (*models.Listing, error) {
	price := float64(f.rand.Intn(49000)+100) / 100

	listing := &models.Listing{
		Title:       gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/400", gofakeit.UUID()),
		OwnerID:     owner.ID,
		CategoryID:  category.ID,
		IsActive:    true,
	}

	// realistic created_at spread over the last few weeks
	daysBack := f.rand.Intn(21)
	hoursBack := f.rand.Intn(24)
	listing.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(listing)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		opening := &models.Bid{
			Amount:    price,
			BidderID:  owner.ID,
			ListingID: listing.ID,
			CreatedAt: listing.CreatedAt,
		}
		if err := tx.Create(opening).Error; err != nil {
			return err
		}
		return tx.Model(listing).Updates(map[string]any{
			"current_bid_id": opening.ID,
			"version":        listing.Version + 1,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// CreateBid persists a bid above the listing's current price and promotes it
// to the listing's current bid.
func (f *Factory) CreateBid(listing *models.Listing, bidder *models.User) (*models.Bid, error) {
	var current models.Listing
	if err := f.db.Preload("CurrentBid").First(&current, listing.ID).Error; err != nil {
		return nil, err
	}

	amount := current.CurrentPrice() + float64(f.rand.Intn(2000)+50)/100
	bid := &models.Bid{
		Amount:    amount,
		BidderID:  bidder.ID,
		ListingID: listing.ID,
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bid).Error; err != nil {
			return err
		}
		return tx.Model(&models.Listing{}).Where("id = ?", listing.ID).Updates(map[string]any{
			"current_bid_id": bid.ID,
			"version":        current.Version + 1,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// CreateComment persists a short fake comment on the listing.
func (f *Factory) CreateComment(listing *models.Listing, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		AuthorID:  author.ID,
		ListingID: listing.ID,
		Message:   gofakeit.Sentence(f.rand.Intn(10) + 3),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
