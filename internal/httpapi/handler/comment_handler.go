package handler

import (
	"net/http"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes expects a group rooted at
// /titles/:title_id/reviews/:review_id/comments.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.RequirePermission(permission.StaffOrAuthorOrReadOnly))
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:comment_id", h.Get)
	rg.PATCH("/:comment_id", h.Update)
	rg.DELETE("/:comment_id", h.Delete)
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}

	limit, offset := pageWindow(c)
	list, total, err := h.svc.ListByReview(c.Request.Context(), titleID, reviewID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.CommentResponse, 0, len(list))
	for _, item := range list {
		results = append(results, dto.FromComment(item))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL, total, limit, offset, results))
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromComment(*comment))
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	comment, err := h.svc.Create(c.Request.Context(), titleID, reviewID, actor.ID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromComment(*comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := permission.StaffOrAuthor(middleware.CurrentActor(c), comment.AuthorID, c.Request.Method); err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), titleID, reviewID, commentID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromComment(*updated))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := h.parents(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := permission.StaffOrAuthor(middleware.CurrentActor(c), comment.AuthorID, c.Request.Method); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) parents(c *gin.Context) (titleID, reviewID int64, ok bool) {
	titleID, ok = pathID(c, "title_id")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = pathID(c, "review_id")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}
