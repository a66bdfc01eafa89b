package service

import (
	"context"

	"gavel/internal/cache"
	"gavel/internal/models"
	"gavel/internal/repository"
)

const maxCommentLen = 2000

// CommentService manages the append-only comment log of a listing.
type CommentService struct {
	commentRepo repository.CommentRepository
	listingRepo repository.ListingRepository
}

// AddCommentInput carries a new comment and its explicit author.
type AddCommentInput struct {
	AuthorID  uint
	ListingID uint
	Message   string
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, listingRepo repository.ListingRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		listingRepo: listingRepo,
	}
}

// Add appends a comment to the listing's log with the current timestamp.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if _, err := s.listingRepo.GetByID(ctx, in.ListingID); err != nil {
		return nil, err
	}

	if in.Message == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	comment := &models.Comment{
		AuthorID:  in.AuthorID,
		ListingID: in.ListingID,
		Message:   in.Message,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	cache.InvalidateListing(ctx, in.ListingID)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// List returns all comments for a listing in creation order.
func (s *CommentService) List(ctx context.Context, listingID uint) ([]*models.Comment, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByListing(ctx, listingID)
}
