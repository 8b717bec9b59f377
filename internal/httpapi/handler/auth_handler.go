package handler

import (
	"net/http"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/metrics"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/token", h.Token)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.SignupsTotal.Inc()
	c.JSON(http.StatusOK, dto.SignupResponse{Username: user.Username, Email: user.Email})
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	access, err := h.authService.IssueToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.TokensIssuedTotal.Inc()
	c.JSON(http.StatusOK, dto.TokenResponse{Access: access})
}
