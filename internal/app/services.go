package app

import (
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/platform/logger"
	"github.com/amacast/amacast-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Identity services.IdentityService
	Stats    services.StatsService
	Session  services.SessionService
	Question services.QuestionService
	Tip      services.TipService
	Profile  services.ProfileService
	Sweeper  services.SweeperService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	auth := services.NewAuthService(log, cfg.JWTSecretKey)
	identity := services.NewIdentityService(db, log, r.User)
	stats := services.NewStatsService(db, log, r.Question, r.Tip, r.ArchivedStats)
	session := services.NewSessionService(db, log, r.Session, r.Question, r.Tip, r.User, stats)
	question := services.NewQuestionService(db, log, r.Question, r.Session, r.User)
	tip := services.NewTipService(db, log, r.Tip, r.Session, r.User)
	profile := services.NewProfileService(db, log, r.User, r.Session, r.Question, r.Tip, r.ArchivedStats)
	sweeper := services.NewSweeperService(log, r.Session, session, cfg.SweepInterval)

	return Services{
		Auth:     auth,
		Identity: identity,
		Stats:    stats,
		Session:  session,
		Question: question,
		Tip:      tip,
		Profile:  profile,
		Sweeper:  sweeper,
	}
}
