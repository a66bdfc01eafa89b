package service

import (
	"context"
	"errors"
	"testing"

	"gavel/internal/database"
	"gavel/internal/models"
	"gavel/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServiceDB opens an in-memory sqlite database migrated with the full
// model registry. A single connection is forced so every query in a test,
// including ones from other goroutines, sees the same database.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-not-relevant",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newTestListingService(db *gorm.DB) *ListingService {
	return NewListingService(
		repository.NewListingRepository(db),
		repository.NewCategoryRepository(db),
		db,
	)
}

// createTestListing opens an auction through the service so it carries the
// owner-authored opening bid like production listings do.
func createTestListing(t *testing.T, db *gorm.DB, owner *models.User, category *models.Category, price float64) *models.Listing {
	t.Helper()
	listing, err := newTestListingService(db).Create(context.Background(), CreateListingInput{
		OwnerID:       owner.ID,
		Title:         "Test listing",
		Description:   "A thing for sale",
		Category:      category.Name,
		StartingPrice: price,
	})
	require.NoError(t, err)
	return listing
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
