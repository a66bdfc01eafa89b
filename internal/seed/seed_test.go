package seed

import (
	"testing"

	"gavel/internal/database"
	"gavel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
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

func TestBuiltInCategories(t *testing.T) {
	names, err := BuiltInCategories()
	require.NoError(t, err)
	assert.NotEmpty(t, names)
	assert.Contains(t, names, "Electronics")
	assert.Contains(t, names, "Other")
}

func TestCategories_Idempotent(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Categories(db))

	var first int64
	require.NoError(t, db.Model(&models.Category{}).Count(&first).Error)
	assert.NotZero(t, first)

	// Re-running must not duplicate rows.
	require.NoError(t, Categories(db))

	var second int64
	require.NoError(t, db.Model(&models.Category{}).Count(&second).Error)
	assert.Equal(t, first, second)
}

func TestFactory_CreateListing(t *testing.T) {
	db := setupSeedDB(t)
	factory := NewFactory(db)

	owner, err := factory.CreateUser()
	require.NoError(t, err)

	category := &models.Category{Name: "Electronics"}
	require.NoError(t, db.Create(category).Error)

	listing, err := factory.CreateListing(owner, category)
	require.NoError(t, err)
	assert.True(t, listing.IsActive)

	// The opening bid is authored by the owner and referenced as current.
	var reloaded models.Listing
	require.NoError(t, db.Preload("CurrentBid").First(&reloaded, listing.ID).Error)
	require.NotNil(t, reloaded.CurrentBid)
	assert.Equal(t, owner.ID, reloaded.CurrentBid.BidderID)
	assert.Positive(t, reloaded.CurrentPrice())
}

func TestSeed(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumListings: 5}))

	var users, listings, bids int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Listing{}).Count(&listings).Error)
	require.NoError(t, db.Model(&models.Bid{}).Count(&bids).Error)

	assert.EqualValues(t, 3, users)
	assert.EqualValues(t, 5, listings)
	// Every listing carries at least its opening bid.
	assert.GreaterOrEqual(t, bids, listings)
}
