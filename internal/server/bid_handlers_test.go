package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBid(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	owner := createHandlerTestUser(t, db, "seller")
	bidder := createHandlerTestUser(t, db, "buyer")
	createHandlerTestCategory(t, db, "Electronics")
	createHandlerTestListing(t, s, owner, "Electronics", 10)

	app := fiber.New()
	app.Post("/api/listings/:id/bids", asUser(bidder.ID), s.PlaceBid)

	t.Run("accepted", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/listings/1/bids", fiber.Map{"amount": 15.0})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["accepted"])

		bid, ok := body["bid"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 15.00, bid["amount"])
	})

	t.Run("too low is an outcome, not an error", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/listings/1/bids", fiber.Map{"amount": 15.0})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["accepted"])
		assert.Equal(t, "bid_too_low", body["reason"])
		assert.NotEmpty(t, body["message"])
	})

	t.Run("owner may outbid on own listing", func(t *testing.T) {
		ownApp := fiber.New()
		ownApp.Post("/api/listings/:id/bids", asUser(owner.ID), s.PlaceBid)

		resp, body := doJSON(t, ownApp, http.MethodPost, "/api/listings/1/bids", fiber.Map{"amount": 100.0})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["accepted"])
	})

	t.Run("unknown listing", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/listings/99/bids", fiber.Map{"amount": 15.0})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", body["code"])
	})

	t.Run("negative amount", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/listings/1/bids", fiber.Map{"amount": -5.0})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})
}

func TestGetBidHistory(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	owner := createHandlerTestUser(t, db, "seller")
	bidder := createHandlerTestUser(t, db, "buyer")
	createHandlerTestCategory(t, db, "Electronics")
	createHandlerTestListing(t, s, owner, "Electronics", 10)

	bidApp := fiber.New()
	bidApp.Post("/api/listings/:id/bids", asUser(bidder.ID), s.PlaceBid)
	for _, amount := range []float64{11, 12} {
		resp, _ := doJSON(t, bidApp, http.MethodPost, "/api/listings/1/bids", fiber.Map{"amount": amount})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	app := fiber.New()
	app.Get("/api/listings/:id/bids", s.GetBidHistory)

	resp, body := doJSON(t, app, http.MethodGet, "/api/listings/1/bids", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])

	bids, ok := body["bids"].([]any)
	require.True(t, ok)
	newest, ok := bids[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 12.00, newest["amount"])

	t.Run("unknown listing is 404", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/listings/42/bids", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", body["code"])
	})
}
