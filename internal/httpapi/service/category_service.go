package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error)
	Create(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}

func (s *categoryService) Create(ctx context.Context, name, slug string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 256 {
		return nil, validationErr("name", "name is required and must be at most 256 characters")
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, validationErr("slug", "slug %q already exists", slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &models.Category{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, validationErr("slug", "slug %q already exists", slug)
		}
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" || len(slug) > 50 || !slugRe.MatchString(slug) {
		return validationErr("slug", "enter a valid slug: letters, digits, hyphens and underscores, at most 50 characters")
	}
	return nil
}
