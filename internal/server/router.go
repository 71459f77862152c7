package server

import (
	"github.com/gin-gonic/gin"

	"github.com/amacast/amacast-backend/internal/http/handlers"
	"github.com/amacast/amacast-backend/internal/http/middleware"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	AuthMiddleware  *middleware.AuthMiddleware
	CORSOrigins     []string
	UserHandler     *handlers.UserHandler
	SessionHandler  *handlers.SessionHandler
	QuestionHandler *handlers.QuestionHandler
	TipHandler      *handlers.TipHandler
	ProfileHandler  *handlers.ProfileHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Anonymous reads.
		api.GET("/sessions", cfg.SessionHandler.List)
		api.GET("/sessions/:id", cfg.SessionHandler.Get)
		api.GET("/questions", cfg.QuestionHandler.List)
		api.GET("/tips", cfg.TipHandler.List)
		api.GET("/users", cfg.UserHandler.List)
		api.GET("/profile/:username", cfg.ProfileHandler.Get)
		api.GET("/best-friends", cfg.ProfileHandler.BestFriends)

		// Writes require the verified identity.
		protected := api.Group("/")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.GET("/auth/me", cfg.UserHandler.GetMe)
			protected.POST("/users", cfg.UserHandler.Upsert)
			protected.POST("/sessions", cfg.SessionHandler.Create)
			protected.PATCH("/sessions/:id", cfg.SessionHandler.Update)
			protected.POST("/questions", cfg.QuestionHandler.Create)
			protected.PATCH("/questions/:id", cfg.QuestionHandler.Answer)
			protected.POST("/tips", cfg.TipHandler.Create)
		}
	}

	return router
}
