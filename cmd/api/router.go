package main

import (
	"github.com/gin-gonic/gin"

	"github.com/streamhub/accounts/internal/config"
	"github.com/streamhub/accounts/internal/logging"
	"github.com/streamhub/accounts/internal/middleware"
	"github.com/streamhub/accounts/internal/tracing"
)

func setupRouter(api *API, cfg *config.Config, logger *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	if cfg.Tracing.Enabled {
		router.Use(tracing.Middleware())
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	authGate := middleware.Auth(api.tokens, api.identityResolver())

	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")

	usersGroup := v1.Group("/users")
	{
		// Credential endpoints take the brunt of abuse, rate limit them
		usersGroup.POST("/register", middleware.RateLimit(limiter), api.register)
		usersGroup.POST("/login", middleware.RateLimit(limiter), api.login)
		usersGroup.POST("/refresh-token", middleware.RateLimit(limiter), api.refreshToken)

		secured := usersGroup.Group("", authGate)
		{
			secured.POST("/logout", api.logout)
			secured.POST("/change-password", api.changePassword)
			secured.GET("/current-user", api.currentUser)
			secured.PATCH("/update-account", api.updateAccount)
			secured.PATCH("/update-avatar", api.updateAvatar)
			secured.PATCH("/update-cover-image", api.updateCoverImage)
			secured.GET("/c/:username", api.getChannelProfile)
			secured.POST("/c/:username/subscribe", api.subscribe)
			secured.DELETE("/c/:username/subscribe", api.unsubscribe)
			secured.GET("/history", api.getWatchHistory)
		}
	}

	videosGroup := v1.Group("/videos", authGate)
	{
		videosGroup.POST("", api.createVideo)
		videosGroup.POST("/:id/watch", api.watchVideo)
	}

	return router
}
