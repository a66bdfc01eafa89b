package seed

import (
	"fmt"
	"log"

	"gavel/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumListings int
	ShouldClean bool
}

// Seed populates the database with demo users, listings, bids, and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d listings...", opts.NumUsers, opts.NumListings)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Categories(db); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return fmt.Errorf("no categories available for seeding")
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d demo users created", len(users))

	if len(users) == 0 {
		log.Println("🎉 Database seeding completed successfully!")
		return nil
	}

	listings := make([]*models.Listing, 0, opts.NumListings)
	for i := 0; i < opts.NumListings; i++ {
		owner := users[factory.rand.Intn(len(users))]
		category := &categories[factory.rand.Intn(len(categories))]
		listing, err := factory.CreateListing(owner, category)
		if err != nil {
			return fmt.Errorf("failed to create listings: %w", err)
		}
		listings = append(listings, listing)
	}
	log.Printf("✓ %d listings created", len(listings))

	bids, comments := 0, 0
	for _, listing := range listings {
		for i := factory.rand.Intn(5); i > 0; i-- {
			bidder := users[factory.rand.Intn(len(users))]
			if bidder.ID == listing.OwnerID {
				continue
			}
			if _, err := factory.CreateBid(listing, bidder); err != nil {
				return fmt.Errorf("failed to create bids: %w", err)
			}
			bids++
		}
		for i := factory.rand.Intn(3); i > 0; i-- {
			author := users[factory.rand.Intn(len(users))]
			if _, err := factory.CreateComment(listing, author); err != nil {
				return fmt.Errorf("failed to create comments: %w", err)
			}
			comments++
		}
	}
	log.Printf("✓ %d bids and %d comments created", bids, comments)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, bids, watchlists, listings, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
