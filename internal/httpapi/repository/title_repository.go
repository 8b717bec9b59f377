package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/httpapi/models"

	"gorm.io/gorm"
)

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type TitleRepository interface {
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title) error
	ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, f TitleFilter, limit, offset int) ([]models.Title, int64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *titleRepository) Update(ctx context.Context, t *models.Title) error {
	// Omit the association so a partial update cannot silently wipe genres;
	// genre replacement goes through ReplaceGenres.
	if err := r.db.WithContext(ctx).Omit("Genres").Save(t).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	if err := r.db.WithContext(ctx).Model(t).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("replace title genres: %w", err)
	}
	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).Preload("Genres").Preload("Category").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *titleRepository) List(ctx context.Context, f TitleFilter, limit, offset int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	// Count and find each get their own chain: gorm's Count leaves its
	// select clause in a shared statement, which would narrow the row query.
	if err := r.filtered(ctx, f).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.filtered(ctx, f)
	if f.GenreSlug != "" {
		// the genre join can multiply rows; grouping by the key collapses them
		q = q.Group("titles.id")
	}
	if err := q.
		Preload("Genres").
		Preload("Category").
		Order("titles.name asc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *titleRepository) filtered(ctx context.Context, f TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	return q
}
