package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, titleID, reviewID int64, authorID, text string) (*models.Comment, error)
	Update(ctx context.Context, titleID, reviewID, id int64, text string) (*models.Comment, error)
	Delete(ctx context.Context, titleID, reviewID, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]models.Comment, int64, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, limit, offset)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := s.commentRepo.GetByID(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, authorID, text string) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationErr("text", "text is required")
	}

	c := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reviewID, c.ID)
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, id int64, text string) (*models.Comment, error) {
	c, err := s.Get(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationErr("text", "text is required")
	}
	c.Text = text
	if err := s.commentRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, id int64) error {
	if _, err := s.Get(ctx, titleID, reviewID, id); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, id)
}

// requireReview resolves the nested path parents: the review must exist and
// belong to the title in the path.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
