package dto

import (
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

// CreateTitleRequest is the write shape: genre and category by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category,omitempty"`
}

func (r CreateTitleRequest) ToInput() service.TitleInput {
	return service.TitleInput{
		Name:         r.Name,
		Year:         r.Year,
		Description:  r.Description,
		GenreSlugs:   r.Genre,
		CategorySlug: r.Category,
	}
}

// UpdateTitleRequest allows partial updates; absent fields stay untouched.
type UpdateTitleRequest struct {
	Name        *string  `json:"name,omitempty"`
	Year        *int     `json:"year,omitempty"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

func (r UpdateTitleRequest) ToInput() service.TitleInput {
	in := service.TitleInput{
		Description:  r.Description,
		GenreSlugs:   r.Genre,
		CategorySlug: r.Category,
	}
	if r.Name != nil {
		in.Name = *r.Name
	}
	if r.Year != nil {
		in.Year = *r.Year
	}
	return in
}

// TitleResponse is the read shape: genre and category fully expanded.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromTitle(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, FromGenre(g))
	}
	if t.Category != nil {
		c := FromCategory(*t.Category)
		resp.Category = &c
	}
	return resp
}
