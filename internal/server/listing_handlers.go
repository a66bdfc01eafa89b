package server

import (
	"gavel/internal/models"
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateListing handles POST /api/listings
// @Summary Create a listing
// @Description Open a new auction with an owner-authored opening bid at the starting price
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,description=string,image_url=string,category=string,starting_price=number} true "Listing details"
// @Success 201 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings [post]
func (s *Server) CreateListing(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req struct {
		Title         string  `json:"title"`
		Description   string  `json:"description"`
		ImageURL      string  `json:"image_url"`
		Category      string  `json:"category"`
		StartingPrice float64 `json:"starting_price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.Create(c.Context(), service.CreateListingInput{
		OwnerID:       userID,
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Category:      req.Category,
		StartingPrice: req.StartingPrice,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetListings handles GET /api/listings
// @Summary List active listings
// @Description Active listings newest first, optionally filtered by category
// @Tags listings
// @Produce json
// @Param category query string false "Category name filter"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{listings=[]models.Listing,count=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /listings [get]
func (s *Server) GetListings(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	category := c.Query("category")

	listings, err := s.listingService.ListActive(c.Context(), category, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing handles GET /api/listings/:id
// @Summary Get listing detail
// @Description Listing with current price, comments, and watch/owner flags for authenticated callers
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} object{listing=models.Listing,current_price=number,watching=bool,is_owner=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [get]
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	listing, err := s.listingService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	comments, err := s.commentService.List(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"listing":       listing,
		"current_price": listing.CurrentPrice(),
		"comments":      comments,
		"watching":      false,
		"is_owner":      false,
	}

	if userID, ok := currentUserID(c); ok {
		watching, err := s.listingService.IsWatching(c.Context(), id, userID)
		if err != nil {
			return respondError(c, err)
		}
		resp["watching"] = watching
		resp["is_owner"] = listing.OwnerID == userID
	}

	// A closed auction's current bidder is its winner.
	if !listing.IsActive && listing.CurrentBid != nil {
		resp["winner"] = listing.CurrentBid.Bidder
	}

	return c.JSON(resp)
}

// CloseListing handles POST /api/listings/:id/close
// @Summary Close an auction
// @Description Owner closes the listing; the current highest bidder wins
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} service.CloseResult
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/close [post]
func (s *Server) CloseListing(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := s.auctionService.Close(c.Context(), id, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// GetCategories handles GET /api/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} object{categories=[]models.Category}
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.listingService.Categories(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"categories": categories,
	})
}
