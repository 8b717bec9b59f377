package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/httpapi/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	ListByReview(ctx context.Context, reviewID int64, limit, offset int) ([]models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("review_id = ?", reviewID).
		First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) ListByReview(ctx context.Context, reviewID int64, limit, offset int) ([]models.Comment, int64, error) {
	var list []models.Comment
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Comment{}).Where("review_id = ?", reviewID)
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
