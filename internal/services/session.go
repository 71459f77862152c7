package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/apierr"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// SessionService owns the session lifecycle: creation under the one-live-
// session-per-creator invariant and the irreversible LIVE -> ENDED
// transition with its archival snapshot.
type SessionService interface {
	Create(ctx context.Context, creatorFid, title, description string) (*types.Session, error)
	End(ctx context.Context, sessionID uuid.UUID, requesterFid string) (*types.Session, error)
	Expire(ctx context.Context, sessionID uuid.UUID) (*types.Session, error)
	List(ctx context.Context, filter types.SessionFilter) ([]*SessionSummary, error)
	GetDetail(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error)
}

// SessionSummary decorates a session row with its creator and cheap stats
// for list views. Participants are only computed in the detail view.
type SessionSummary struct {
	*types.Session
	Creator *types.VerifiedIdentity `json:"creator,omitempty"`
	Stats   types.SessionStats      `json:"stats"`
}

type SessionDetail struct {
	Session   *types.Session      `json:"session"`
	Questions []*types.Question   `json:"questions"`
	Tips      []*types.Tip        `json:"tips"`
	Stats     *types.SessionStats `json:"stats"`
}

type sessionService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.SessionRepo
	questionRepo repos.QuestionRepo
	tipRepo      repos.TipRepo
	userRepo     repos.UserRepo
	stats        StatsService
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo, questionRepo repos.QuestionRepo, tipRepo repos.TipRepo, userRepo repos.UserRepo, stats StatsService) SessionService {
	serviceLog := log.With("service", "SessionService")
	return &sessionService{
		db:           db,
		log:          serviceLog,
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		tipRepo:      tipRepo,
		userRepo:     userRepo,
		stats:        stats,
	}
}

func (ss *sessionService) Create(ctx context.Context, creatorFid, title, description string) (*types.Session, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apierr.Validation("missing_fields",
			fmt.Errorf("missing required fields: title, description"))
	}

	var out *types.Session
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := ss.sessionRepo.FindLiveByCreator(ctx, tx, creatorFid)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.Conflict("live_session_exists",
				fmt.Errorf("creator already has a live session"))
		}

		now := time.Now().UTC()
		session := &types.Session{
			ID:          uuid.New(),
			CreatorFid:  creatorFid,
			Title:       title,
			Description: description,
			Status:      types.SessionStatusLive,
			CreatedAt:   now,
			EndsAt:      now.Add(types.SessionDuration),
		}
		created, err := ss.sessionRepo.Create(ctx, tx, session)
		if err != nil {
			// The partial unique index closes the race the pre-check leaves
			// open between two concurrent creates.
			if repos.IsDuplicate(err) {
				return apierr.Conflict("live_session_exists",
					fmt.Errorf("creator already has a live session"))
			}
			return err
		}
		out = created
		return nil
	}); err != nil {
		return nil, serviceError(ss.log, "Create", err)
	}
	ss.log.Info("Session created", "session_id", out.ID, "creator_fid", creatorFid)
	return out, nil
}

func (ss *sessionService) End(ctx context.Context, sessionID uuid.UUID, requesterFid string) (*types.Session, error) {
	return ss.end(ctx, sessionID, requesterFid, false)
}

// Expire runs the same transition without the ownership check. It is only
// invoked by the expiry sweeper for sessions whose deadline has passed.
func (ss *sessionService) Expire(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	return ss.end(ctx, sessionID, "", true)
}

func (ss *sessionService) end(ctx context.Context, sessionID uuid.UUID, requesterFid string, system bool) (*types.Session, error) {
	var out *types.Session
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := ss.sessionRepo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apierr.NotFound("session_not_found", fmt.Errorf("session not found"))
		}
		if !system && session.CreatorFid != requesterFid {
			return apierr.Forbidden("not_session_creator",
				fmt.Errorf("only the session creator can end the session"))
		}

		// Compare the loaded status, not the value about to be assigned:
		// ending an already-ended session is idempotent success and must not
		// re-run archival.
		if session.Status == types.SessionStatusEnded {
			out = session
			return nil
		}

		// Snapshot before the status flip, so a failure here aborts the
		// whole transaction and never leaves an ENDED session without its
		// archived stats.
		if _, err := ss.stats.Archive(ctx, tx, session); err != nil {
			return err
		}
		if err := ss.sessionRepo.UpdateStatus(ctx, tx, session.ID, types.SessionStatusEnded); err != nil {
			return err
		}
		session.Status = types.SessionStatusEnded
		out = session
		return nil
	}); err != nil {
		return nil, serviceError(ss.log, "End", err)
	}
	ss.log.Info("Session ended", "session_id", out.ID, "system", system)
	return out, nil
}

func (ss *sessionService) List(ctx context.Context, filter types.SessionFilter) ([]*SessionSummary, error) {
	sessions, err := ss.sessionRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, serviceError(ss.log, "List", err)
	}

	summaries := make([]*SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summary := &SessionSummary{Session: session}

		user, err := ss.userRepo.GetByFid(ctx, nil, session.CreatorFid)
		if err != nil {
			return nil, serviceError(ss.log, "List", err)
		}
		if user != nil {
			summary.Creator = &types.VerifiedIdentity{
				Fid:      user.Fid,
				Username: user.Username,
				PfpURL:   user.PfpURL,
			}
		}

		questionCount, err := ss.questionRepo.CountBySession(ctx, nil, session.ID)
		if err != nil {
			return nil, serviceError(ss.log, "List", err)
		}
		tipTotal, err := ss.tipRepo.SumAmountBySession(ctx, nil, session.ID)
		if err != nil {
			return nil, serviceError(ss.log, "List", err)
		}
		summary.Stats = types.SessionStats{
			TotalQuestions: questionCount,
			TotalTips:      tipTotal,
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (ss *sessionService) GetDetail(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error) {
	session, err := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, serviceError(ss.log, "GetDetail", err)
	}
	if session == nil {
		return nil, apierr.NotFound("session_not_found", fmt.Errorf("session not found"))
	}

	questions, err := ss.questionRepo.ListBySession(ctx, nil, session.ID)
	if err != nil {
		return nil, serviceError(ss.log, "GetDetail", err)
	}
	tips, err := ss.tipRepo.ListBySession(ctx, nil, session.ID)
	if err != nil {
		return nil, serviceError(ss.log, "GetDetail", err)
	}
	stats, err := ss.stats.ForSession(ctx, session)
	if err != nil {
		return nil, err
	}

	return &SessionDetail{
		Session:   session,
		Questions: questions,
		Tips:      tips,
		Stats:     stats,
	}, nil
}
