package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/apierr"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// StatsService computes aggregate statistics over the question and tip
// ledgers and freezes them into a snapshot at session end. While a session
// is LIVE stats are a repeatable computed view; once it is ENDED the frozen
// snapshot is the only source, even though the ledgers remain queryable.
type StatsService interface {
	ComputeLive(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.LiveSessionStats, error)
	Archive(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.ArchivedSessionStats, error)
	ForSession(ctx context.Context, session *types.Session) (*types.SessionStats, error)
}

type statsService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	tipRepo      repos.TipRepo
	statsRepo    repos.ArchivedStatsRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, tipRepo repos.TipRepo, statsRepo repos.ArchivedStatsRepo) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{
		db:           db,
		log:          serviceLog,
		questionRepo: questionRepo,
		tipRepo:      tipRepo,
		statsRepo:    statsRepo,
	}
}

func (ss *statsService) ComputeLive(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.LiveSessionStats, error) {
	totalQuestions, err := ss.questionRepo.CountBySession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	answered, err := ss.questionRepo.CountAnsweredBySession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	totalTips, err := ss.tipRepo.SumAmountBySession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	tipCount, err := ss.tipRepo.CountBySession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	askers, err := ss.questionRepo.ListAskerFids(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	senders, err := ss.tipRepo.ListSenderFids(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	participants := make(map[string]struct{}, len(askers)+len(senders))
	for _, fid := range askers {
		participants[fid] = struct{}{}
	}
	for _, fid := range senders {
		participants[fid] = struct{}{}
	}

	stats := &types.LiveSessionStats{
		SessionStats: types.SessionStats{
			TotalTips:         totalTips,
			TotalQuestions:    totalQuestions,
			TotalParticipants: int64(len(participants)),
		},
		AnsweredQuestions: answered,
	}
	if tipCount > 0 {
		stats.AverageTipAmount = totalTips / float64(tipCount)
	}
	return stats, nil
}

// Archive persists the frozen snapshot for session. The session_id unique
// index makes this exactly-once: a duplicate insert means another caller
// already archived, and the existing snapshot is returned as success.
func (ss *statsService) Archive(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.ArchivedSessionStats, error) {
	live, err := ss.ComputeLive(ctx, tx, session.ID)
	if err != nil {
		return nil, err
	}

	snapshot := &types.ArchivedSessionStats{
		ID:                uuid.New(),
		SessionID:         session.ID,
		TotalTips:         live.TotalTips,
		TotalQuestions:    live.TotalQuestions,
		TotalParticipants: live.TotalParticipants,
		ArchivedAt:        time.Now().UTC(),
	}
	created, err := ss.statsRepo.Create(ctx, tx, snapshot)
	if err != nil {
		if repos.IsDuplicate(err) {
			existing, getErr := ss.statsRepo.GetBySessionID(ctx, tx, session.ID)
			if getErr != nil {
				return nil, getErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return created, nil
}

// ForSession returns the frozen snapshot for an ended session and the live
// computation otherwise.
func (ss *statsService) ForSession(ctx context.Context, session *types.Session) (*types.SessionStats, error) {
	if session.Status == types.SessionStatusEnded {
		snapshot, err := ss.statsRepo.GetBySessionID(ctx, nil, session.ID)
		if err != nil {
			return nil, serviceError(ss.log, "ForSession", err)
		}
		if snapshot == nil {
			// Should not happen: ENDED implies a snapshot exists.
			return nil, serviceError(ss.log, "ForSession",
				apierr.Storage(fmt.Errorf("ended session %s has no archived stats", session.ID)))
		}
		return &types.SessionStats{
			TotalTips:         snapshot.TotalTips,
			TotalQuestions:    snapshot.TotalQuestions,
			TotalParticipants: snapshot.TotalParticipants,
		}, nil
	}

	live, err := ss.ComputeLive(ctx, nil, session.ID)
	if err != nil {
		return nil, serviceError(ss.log, "ForSession", err)
	}
	return &live.SessionStats, nil
}
