package server

import (
	"gavel/internal/models"
	"gavel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/listings/:id/comments
// @Summary Add a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body object{message=string} true "Comment body"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
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
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Add(c.Context(), service.AddCommentInput{
		AuthorID:  userID,
		ListingID: id,
		Message:   req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/listings/:id/comments
// @Summary List comments
// @Description Comments on a listing, oldest first
// @Tags comments
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} object{comments=[]models.Comment,count=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comments, err := s.commentService.List(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"comments": comments,
		"count":    len(comments),
	})
}
