package server

import (
	"context"
	"net/http"

	"deal-rater/internal/auth"
	handler "deal-rater/services/deals/handler"
	"deal-rater/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the use cases the HTTP surface exposes
type Services struct {
	Lifecycle handler.LifecycleServiceInterface
	Ratings   handler.RatingServiceInterface
	Profiles  handler.ProfileServiceInterface
}

// Options tunes the router
type Options struct {
	// RatingsPerMinute caps POST /ratings per caller. Zero disables the limit.
	RatingsPerMinute int
	// HealthCheck backs /healthz; nil means always healthy
	HealthCheck func(ctx context.Context) error
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services, issuer *auth.Issuer, opts Options) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(ResponseTimeMiddleware)  // X-Response-Time header
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/healthz", healthHandler(opts.HealthCheck))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	dealsHandler := handler.NewDealsHandler(svc.Lifecycle, svc.Ratings, svc.Profiles)

	api := router.Group("")
	api.Use(AuthMiddleware(issuer))

	posts := api.Group("/posts")
	{
		posts.POST("", dealsHandler.CreatePostHandler)
		posts.GET("", dealsHandler.ListPostsHandler)
		posts.GET("/:post_id", dealsHandler.GetPostHandler)
		posts.GET("/:post_id/ratings", dealsHandler.ListPostRatingsHandler)
	}

	api.GET("/posts-to-rate", dealsHandler.ListPostsToRateHandler)

	ratings := api.Group("/ratings")
	if opts.RatingsPerMinute > 0 {
		ratings.Use(NewRateLimiter(opts.RatingsPerMinute).Middleware)
	}
	{
		ratings.POST("", dealsHandler.SubmitRatingHandler)
	}

	api.GET("/user", dealsHandler.GetProfileHandler)

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				utils.JSONError(c, http.StatusServiceUnavailable, err, "store unavailable")
				utils.Error("healthHandler: store check failed", map[string]any{"error": err.Error()})
				return
			}
		}
		utils.JSONResponse(c, http.StatusOK, gin.H{"healthy": true}, "ok")
	}
}
