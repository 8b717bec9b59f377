package handler

import (
	"net/http"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.RequirePermission(permission.AdminOrReadOnly))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	limit, offset := pageWindow(c)
	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.GenreResponse, 0, len(list))
	for _, item := range list {
		results = append(results, dto.FromGenre(item))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL, total, limit, offset, results))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	genre, err := h.svc.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromGenre(*genre))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
