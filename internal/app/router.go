package app

import (
	"github.com/gin-gonic/gin"

	"github.com/amacast/amacast-backend/internal/platform/logger"
	"github.com/amacast/amacast-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:             log,
		AuthMiddleware:  middleware.Auth,
		CORSOrigins:     cfg.CORSOrigins,
		UserHandler:     handlers.User,
		SessionHandler:  handlers.Session,
		QuestionHandler: handlers.Question,
		TipHandler:      handlers.Tip,
		ProfileHandler:  handlers.Profile,
	})
}
