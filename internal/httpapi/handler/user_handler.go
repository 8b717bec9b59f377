package handler

import (
	"net/http"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRoutes expects a group already behind strict authentication. The
// reserved username "me" is dispatched inside the :username routes because
// the router cannot hold both a static "me" segment and the parameter.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", middleware.RequireAdmin(), h.List)
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.GET("/:username", h.Get)
	rg.PATCH("/:username", h.Update)
	rg.DELETE("/:username", h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pageWindow(c)
	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.UserResponse, 0, len(list))
	for _, item := range list {
		results = append(results, dto.FromUser(item))
	}
	c.JSON(http.StatusOK, dto.NewPage(c.Request.URL, total, limit, offset, results))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.svc.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUser(*user))
}

func (h *UserHandler) Get(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		h.getSelf(c)
		return
	}
	if err := permission.AdminOnly(middleware.CurrentActor(c)); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.svc.Get(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(*user))
}

func (h *UserHandler) Update(c *gin.Context) {
	username := c.Param("username")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if username == "me" {
		user, err := h.svc.UpdateSelf(c.Request.Context(), middleware.CurrentActor(c), req.ToInput())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromUser(*user))
		return
	}

	if err := permission.AdminOnly(middleware.CurrentActor(c)); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.svc.Update(c.Request.Context(), username, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(*user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		// the self-profile surface is GET/PATCH only
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "method not allowed"})
		return
	}
	if err := permission.AdminOnly(middleware.CurrentActor(c)); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), username); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) getSelf(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	user, err := h.svc.Get(c.Request.Context(), actor.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(*user))
}
