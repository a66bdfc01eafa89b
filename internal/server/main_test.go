package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gavel/internal/config"
	"gavel/internal/database"
	"gavel/internal/middleware"
	"gavel/internal/models"
	"gavel/internal/repository"
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
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

// newTestServer wires a Server directly against the given DB, skipping
// Redis and metrics registration.
func newTestServer(db *gorm.DB) *Server {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bidRepo := repository.NewBidRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret: "test-secret-key-12345678901234567890123456789012",
			Env:       "test",
		},
		db:           db,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		listingRepo:  listingRepo,
		bidRepo:      bidRepo,
		commentRepo:  commentRepo,
	}
	s.userService = service.NewUserService(userRepo)
	s.listingService = service.NewListingService(listingRepo, categoryRepo, db)
	s.auctionService = service.NewAuctionService(bidRepo, db)
	s.commentService = service.NewCommentService(commentRepo, listingRepo)
	return s
}

// asUser injects the given user ID like AuthRequired would after token
// validation.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUserIDKey, userID)
		return c.Next()
	}
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createHandlerTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createHandlerTestListing(t *testing.T, s *Server, owner *models.User, categoryName string, price float64) *models.Listing {
	t.Helper()
	listing, err := s.listingService.Create(context.Background(), service.CreateListingInput{
		OwnerID:       owner.ID,
		Title:         "Test listing",
		Category:      categoryName,
		StartingPrice: price,
	})
	require.NoError(t, err)
	return listing
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}
