package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.RequirePermission(permission.AdminOrReadOnly))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:title_id", h.Get)
	rg.PATCH("/:title_id", h.Update)
	rg.DELETE("/:title_id", h.Delete)
}

func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"year": []string{"enter a valid year"}})
			return
		}
		filter.Year = &year
	}

	limit, offset := pageWindow(c)
	list, total, err := h.svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.TitleResponse, 0, len(list))
	for _, item := range list {
		results = append(results, dto.FromTitle(item))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL, total, limit, offset, results))
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitle(*title))
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	title, err := h.svc.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTitle(*title))
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	title, err := h.svc.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitle(*title))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
