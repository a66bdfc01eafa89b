package server

import (
	"gavel/internal/models"
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PlaceBid handles POST /api/listings/:id/bids
// @Summary Place a bid
// @Description Bid on an active listing; a too-low bid or a closed auction is a rejected outcome, not an error
// @Tags bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body object{amount=number} true "Bid amount"
// @Success 200 {object} service.BidOutcome
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/bids [post]
func (s *Server) PlaceBid(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	outcome, err := s.auctionService.PlaceBid(c.Context(), service.PlaceBidInput{
		ListingID: id,
		BidderID:  userID,
		Amount:    req.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(outcome)
}

// GetBidHistory handles GET /api/listings/:id/bids
// @Summary Bid history
// @Description All accepted bids on a listing, newest first
// @Tags bids
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} object{bids=[]models.Bid,count=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/bids [get]
func (s *Server) GetBidHistory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	// Existence check so an unknown listing is a 404, not an empty list.
	if _, err := s.listingService.Get(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	bids, err := s.auctionService.BidHistory(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"bids":  bids,
		"count": len(bids),
	})
}
