package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	Create(ctx context.Context, titleID int64, authorID, text string, score int) (*models.Review, error)
	Update(ctx context.Context, titleID, id int64, text *string, score *int) (*models.Review, error)
	Delete(ctx context.Context, titleID, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, limit, offset)
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	rev, err := s.reviewRepo.GetByID(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rev, nil
}

func (s *reviewService) Create(ctx context.Context, titleID int64, authorID, text string, score int) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationErr("text", "text is required")
	}
	if err := validateScore(score); err != nil {
		return nil, err
	}

	// Friendly error on the common path; the unique constraint still decides
	// under concurrent duplicate submissions.
	exists, err := s.reviewRepo.ExistsByTitleAndAuthor(ctx, titleID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, validationErr("", "you have already reviewed this title")
	}

	rev := &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviewRepo.Create(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, validationErr("", "you have already reviewed this title")
		}
		return nil, err
	}
	return s.reviewRepo.GetByID(ctx, titleID, rev.ID)
}

// Update applies a partial update. The one-review-per-title rule is not
// re-checked here: the pair (title, author) cannot change on update.
func (s *reviewService) Update(ctx context.Context, titleID, id int64, text *string, score *int) (*models.Review, error) {
	rev, err := s.Get(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	if text != nil {
		if strings.TrimSpace(*text) == "" {
			return nil, validationErr("text", "text is required")
		}
		rev.Text = *text
	}
	if score != nil {
		if err := validateScore(*score); err != nil {
			return nil, err
		}
		rev.Score = *score
	}
	if err := s.reviewRepo.Update(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, id int64) error {
	if _, err := s.Get(ctx, titleID, id); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return validationErr("score", "score must be between 1 and 10")
	}
	return nil
}
