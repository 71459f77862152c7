package app

import (
	"github.com/amacast/amacast-backend/internal/http/handlers"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type Handlers struct {
	User     *handlers.UserHandler
	Session  *handlers.SessionHandler
	Question *handlers.QuestionHandler
	Tip      *handlers.TipHandler
	Profile  *handlers.ProfileHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		User:     handlers.NewUserHandler(services.Identity),
		Session:  handlers.NewSessionHandler(services.Session),
		Question: handlers.NewQuestionHandler(services.Question),
		Tip:      handlers.NewTipHandler(services.Tip),
		Profile:  handlers.NewProfileHandler(services.Profile),
	}
}
