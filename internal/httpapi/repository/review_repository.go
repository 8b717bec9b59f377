package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/httpapi/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, rev *models.Review) error
	Update(ctx context.Context, rev *models.Review) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, titleID, id int64) (*models.Review, error)
	ExistsByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error)
	AverageScore(ctx context.Context, titleID int64) (*float64, error)
	AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rev *models.Review) error {
	if err := r.db.WithContext(ctx).Create(rev).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, rev *models.Review) error {
	if err := r.db.WithContext(ctx).Save(rev).Error; err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID resolves a review within its parent title, so a review id reached
// through the wrong title path is a not-found.
func (r *reviewRepository) GetByID(ctx context.Context, titleID, id int64) (*models.Review, error) {
	var rev models.Review
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ?", titleID).
		First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *reviewRepository) ExistsByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error) {
	var list []models.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Author").
		Order("pub_date desc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// AverageScore returns the mean review score for a title, nil when the title
// has no reviews.
func (r *reviewRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// AverageScores batches the aggregation for a listing page. Titles without
// reviews are simply absent from the result.
func (r *reviewRepository) AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error) {
	result := make(map[int64]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		TitleID int64
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, AVG(score) as average").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TitleID] = row.Average
	}
	return result, nil
}
