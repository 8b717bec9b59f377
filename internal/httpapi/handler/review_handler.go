package handler

import (
	"net/http"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes expects a group rooted at /titles/:title_id/reviews.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.RequirePermission(permission.StaffOrAuthorOrReadOnly))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:review_id", h.Get)
	rg.PATCH("/:review_id", h.Update)
	rg.DELETE("/:review_id", h.Delete)
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	limit, offset := pageWindow(c)
	list, total, err := h.svc.ListByTitle(c.Request.Context(), titleID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.ReviewResponse, 0, len(list))
	for _, item := range list {
		results = append(results, dto.FromReview(item))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL, total, limit, offset, results))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReview(*review))
}

// Create injects the author and the parent title server-side; the client may
// not set either.
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	review, err := h.svc.Create(c.Request.Context(), titleID, actor.ID, req.Text, req.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromReview(*review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := permission.StaffOrAuthor(middleware.CurrentActor(c), review.AuthorID, c.Request.Method); err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), titleID, reviewID, req.Text, req.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReview(*updated))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := permission.StaffOrAuthor(middleware.CurrentActor(c), review.AuthorID, c.Request.Method); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
