// Package httpapi wires the HTTP surface: routes under /v1, auth middleware
// per group, and the operational endpoints at the root.
package httpapi

import (
	"log/slog"
	"net/http"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/mailer"
	"reviewhub/internal/metrics"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter builds the full engine from a database handle.
func NewRouter(db *gorm.DB, cfg *config.Config, mail mailer.Mailer, logger *slog.Logger) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, mail, cfg, logger)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)
	userService := service.NewUserService(userRepo)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.HTTPMetrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")

	auth := v1.Group("/auth", middleware.Throttle(cfg.AuthRateRPS))
	handler.NewAuthHandler(authService).RegisterRoutes(auth)

	categories := v1.Group("/categories", middleware.MaybeAuthenticate(authService))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(categories)

	genres := v1.Group("/genres", middleware.MaybeAuthenticate(authService))
	handler.NewGenreHandler(genreService).RegisterRoutes(genres)

	titles := v1.Group("/titles", middleware.MaybeAuthenticate(authService))
	handler.NewTitleHandler(titleService).RegisterRoutes(titles)

	reviews := v1.Group("/titles/:title_id/reviews", middleware.MaybeAuthenticate(authService))
	handler.NewReviewHandler(reviewService).RegisterRoutes(reviews)

	comments := v1.Group("/titles/:title_id/reviews/:review_id/comments", middleware.MaybeAuthenticate(authService))
	handler.NewCommentHandler(commentService).RegisterRoutes(comments)

	users := v1.Group("/users", middleware.Authenticate(authService))
	handler.NewUserHandler(userService).RegisterRoutes(users)

	return r
}
