package server

import (
	"gavel/internal/models"

	"github.com/gofiber/fiber/v2"
)

// WatchListing handles PUT /api/listings/:id/watch
// @Summary Watch a listing
// @Description Add the listing to the caller's watchlist; watching again is a no-op
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} object{watching=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/watch [put]
func (s *Server) WatchListing(c *fiber.Ctx) error {
	return s.setWatching(c, true)
}

// UnwatchListing handles DELETE /api/listings/:id/watch
// @Summary Unwatch a listing
// @Description Remove the listing from the caller's watchlist; unwatching an unwatched listing is a no-op
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} object{watching=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/watch [delete]
func (s *Server) UnwatchListing(c *fiber.Ctx) error {
	return s.setWatching(c, false)
}

func (s *Server) setWatching(c *fiber.Ctx, watch bool) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := s.listingService.SetWatching(c.Context(), id, userID, watch); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"watching": watch,
	})
}

// GetWatchlist handles GET /api/watchlist
// @Summary Get watchlist
// @Description All listings the caller watches, active and closed alike
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{listings=[]models.Listing,count=int}
// @Router /watchlist [get]
func (s *Server) GetWatchlist(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	listings, err := s.listingService.Watchlist(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"count":    len(listings),
	})
}
