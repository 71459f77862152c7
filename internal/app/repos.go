package app

import (
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	Session       repos.SessionRepo
	Question      repos.QuestionRepo
	Tip           repos.TipRepo
	ArchivedStats repos.ArchivedStatsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Session:       repos.NewSessionRepo(db, log),
		Question:      repos.NewQuestionRepo(db, log),
		Tip:           repos.NewTipRepo(db, log),
		ArchivedStats: repos.NewArchivedStatsRepo(db, log),
	}
}
