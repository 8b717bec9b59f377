package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticate requires a valid bearer token and stores the resulting actor
// in the request context.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromHeader(c, authService)
		if !ok {
			return
		}
		if !actor.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// MaybeAuthenticate resolves the actor when a token is present and lets the
// request through anonymously otherwise. A malformed or invalid token is
// still a 401: silently ignoring bad credentials hides client bugs.
func MaybeAuthenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromHeader(c, authService)
		if !ok {
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorFromHeader(c *gin.Context, authService service.AuthService) (permission.Actor, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return permission.Actor{}, true
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid authorization header format"})
		c.Abort()
		return permission.Actor{}, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
		c.Abort()
		return permission.Actor{}, false
	}

	return permission.Actor{
		ID:            claims.UserID,
		Username:      claims.Username,
		Role:          claims.Role,
		IsSuperuser:   claims.Superuser,
		Authenticated: true,
	}, true
}

// CurrentActor returns the actor stored by the auth middleware; the zero
// value is anonymous.
func CurrentActor(c *gin.Context) permission.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(permission.Actor); ok {
			return actor
		}
	}
	return permission.Actor{}
}

// RequirePermission runs a request-level permission check before the handler.
func RequirePermission(check func(permission.Actor, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := check(CurrentActor(c), c.Request.Method); err != nil {
			abortPermission(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin gates user-management endpoints.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := permission.AdminOnly(CurrentActor(c)); err != nil {
			abortPermission(c, err)
			return
		}
		c.Next()
	}
}

func abortPermission(c *gin.Context, err error) {
	status := http.StatusForbidden
	if err == permission.ErrNotAuthenticated {
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"detail": err.Error()})
	c.Abort()
}
