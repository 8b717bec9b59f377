package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy to HTTP statuses. Validation
// errors render with the offending field as the key, non-field errors under
// "detail".
func respondError(c *gin.Context, err error) {
	var v *service.ValidationError
	switch {
	case errors.As(err, &v):
		field := v.Field
		if field == "" {
			field = "detail"
		}
		c.JSON(http.StatusBadRequest, gin.H{field: []string{v.Message}})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, permission.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, permission.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": []string{err.Error()}})
}

// pageWindow parses limit/offset query parameters with clamped defaults.
func pageWindow(c *gin.Context) (limit, offset int) {
	limit = dto.DefaultPageLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
			if limit > dto.MaxPageLimit {
				limit = dto.MaxPageLimit
			}
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
		return 0, false
	}
	return id, true
}
