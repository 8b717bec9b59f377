package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

// TitleInput is the write shape for titles: genre and category arrive as
// slug references, never as nested objects.
type TitleInput struct {
	Name        string
	Year        int
	Description *string
	GenreSlugs  []string
	// CategorySlug nil means "leave unchanged" on update and "no category"
	// on create; the empty string clears the category.
	CategorySlug *string
}

type TitleService interface {
	List(ctx context.Context, f repository.TitleFilter, limit, offset int) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, in TitleInput) (*models.Title, error)
	Update(ctx context.Context, id int64, in TitleInput) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewRepo   repository.ReviewRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
	}
}

func (s *titleService) List(ctx context.Context, f repository.TitleFilter, limit, offset int) ([]models.Title, int64, error) {
	list, total, err := s.titleRepo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	averages, err := s.reviewRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range list {
		if avg, ok := averages[list[i].ID]; ok {
			v := avg
			list[i].Rating = &v
		}
	}
	return list, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	avg, err := s.reviewRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Rating = avg
	return t, nil
}

func (s *titleService) Create(ctx context.Context, in TitleInput) (*models.Title, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 256 {
		return nil, validationErr("name", "name is required and must be at most 256 characters")
	}
	if err := validateYear(in.Year); err != nil {
		return nil, err
	}

	t := &models.Title{
		Name:        name,
		Year:        in.Year,
		Description: in.Description,
	}

	if in.CategorySlug != nil && *in.CategorySlug != "" {
		category, err := s.resolveCategory(ctx, *in.CategorySlug)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(ctx, in.GenreSlugs)
	if err != nil {
		return nil, err
	}
	t.Genres = genres

	if err := s.titleRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

// Update applies a partial update; zero-valued name and year stay untouched.
func (s *titleService) Update(ctx context.Context, id int64, in TitleInput) (*models.Title, error) {
	t, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		name := strings.TrimSpace(in.Name)
		if name == "" || len(name) > 256 {
			return nil, validationErr("name", "name is required and must be at most 256 characters")
		}
		t.Name = name
	}
	if in.Year != 0 {
		if err := validateYear(in.Year); err != nil {
			return nil, err
		}
		t.Year = in.Year
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.CategorySlug != nil {
		if *in.CategorySlug == "" {
			t.CategoryID = nil
			t.Category = nil
		} else {
			category, err := s.resolveCategory(ctx, *in.CategorySlug)
			if err != nil {
				return nil, err
			}
			t.CategoryID = &category.ID
			t.Category = category
		}
	}

	if err := s.titleRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	if in.GenreSlugs != nil {
		genres, err := s.resolveGenres(ctx, in.GenreSlugs)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, t, genres); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	if err := validateSlug(slug); err != nil {
		return nil, validationErr("category", "enter a valid category slug")
	}
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErr("category", "unknown category slug: %s", slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	for _, slug := range slugs {
		if err := validateSlug(slug); err != nil {
			return nil, validationErr("genre", "enter a valid genre slug")
		}
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(uniqueStrings(slugs)) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				return nil, validationErr("genre", "unknown genre slug: %s", slug)
			}
		}
	}
	return genres, nil
}

func validateYear(year int) error {
	if year <= 0 {
		return validationErr("year", "year is required")
	}
	if year > time.Now().Year() {
		return validationErr("year", "year %d has not happened yet", year)
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
