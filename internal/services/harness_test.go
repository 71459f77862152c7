package services_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	"github.com/amacast/amacast-backend/internal/data/repos/testutil"
	"github.com/amacast/amacast-backend/internal/platform/logger"
	"github.com/amacast/amacast-backend/internal/services"
)

// harness wires the full service stack over a throwaway database, the same
// way the app wires it at boot.
type harness struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
	quesRepo    repos.QuestionRepo
	tipRepo     repos.TipRepo
	statsRepo   repos.ArchivedStatsRepo

	identity services.IdentityService
	stats    services.StatsService
	sessions services.SessionService
	quest    services.QuestionService
	tips     services.TipService
	profiles services.ProfileService
	sweeper  services.SweeperService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	gdb := testutil.Open(t)
	log := testutil.Logger(t)

	h := &harness{
		db:          gdb,
		log:         log,
		userRepo:    repos.NewUserRepo(gdb, log),
		sessionRepo: repos.NewSessionRepo(gdb, log),
		quesRepo:    repos.NewQuestionRepo(gdb, log),
		tipRepo:     repos.NewTipRepo(gdb, log),
		statsRepo:   repos.NewArchivedStatsRepo(gdb, log),
	}

	h.identity = services.NewIdentityService(gdb, log, h.userRepo)
	h.stats = services.NewStatsService(gdb, log, h.quesRepo, h.tipRepo, h.statsRepo)
	h.sessions = services.NewSessionService(gdb, log, h.sessionRepo, h.quesRepo, h.tipRepo, h.userRepo, h.stats)
	h.quest = services.NewQuestionService(gdb, log, h.quesRepo, h.sessionRepo, h.userRepo)
	h.tips = services.NewTipService(gdb, log, h.tipRepo, h.sessionRepo, h.userRepo)
	h.profiles = services.NewProfileService(gdb, log, h.userRepo, h.sessionRepo, h.quesRepo, h.tipRepo, h.statsRepo)
	h.sweeper = services.NewSweeperService(log, h.sessionRepo, h.sessions, 0)

	return h
}
