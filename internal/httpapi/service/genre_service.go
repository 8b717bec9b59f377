package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error)
	Create(ctx context.Context, name, slug string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}

func (s *genreService) Create(ctx context.Context, name, slug string) (*models.Genre, error) {
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

	g := &models.Genre{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, validationErr("slug", "slug %q already exists", slug)
		}
		return nil, err
	}
	return g, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
