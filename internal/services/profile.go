package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/apierr"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	BestFriends(ctx context.Context, fid string) ([]*BestFriend, error)
}

// Interaction weights for the best-friends ranking. A tip is a stronger
// signal than a question.
const (
	questionInteractionWeight = 1
	tipInteractionWeight      = 2
	bestFriendLimit           = 10
)

// BestFriend is a user ranked by how often they interacted with a
// creator's sessions.
type BestFriend struct {
	*types.User
	InteractionCount int64 `json:"interaction_count"`
}

type Profile struct {
	User           *types.User       `json:"user"`
	CurrentSession *SessionSummary   `json:"current_session,omitempty"`
	PastSessions   []*SessionSummary `json:"past_sessions"`
	Stats          ProfileStats      `json:"stats"`
}

type ProfileStats struct {
	TotalSessions  int     `json:"total_sessions"`
	TotalQuestions int64   `json:"total_questions"`
	TotalTips      float64 `json:"total_tips"`
	LiveSessions   int     `json:"live_sessions"`
	EndedSessions  int     `json:"ended_sessions"`
}

type profileService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	sessionRepo  repos.SessionRepo
	questionRepo repos.QuestionRepo
	tipRepo      repos.TipRepo
	statsRepo    repos.ArchivedStatsRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, sessionRepo repos.SessionRepo, questionRepo repos.QuestionRepo, tipRepo repos.TipRepo, statsRepo repos.ArchivedStatsRepo) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		tipRepo:      tipRepo,
		statsRepo:    statsRepo,
	}
}

func (ps *profileService) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	user, err := ps.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, serviceError(ps.log, "GetByUsername", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user not found"))
	}

	sessions, err := ps.sessionRepo.ListByCreator(ctx, nil, user.Fid)
	if err != nil {
		return nil, serviceError(ps.log, "GetByUsername", err)
	}

	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	var endedIDs []uuid.UUID
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
		if session.Status == types.SessionStatusEnded {
			endedIDs = append(endedIDs, session.ID)
		}
	}

	totalQuestions, err := ps.questionRepo.CountBySessions(ctx, nil, sessionIDs)
	if err != nil {
		return nil, serviceError(ps.log, "GetByUsername", err)
	}
	totalTips, err := ps.tipRepo.SumAmountBySessions(ctx, nil, sessionIDs)
	if err != nil {
		return nil, serviceError(ps.log, "GetByUsername", err)
	}

	// Ended sessions get their frozen snapshots in one read; live sessions
	// are computed from the ledgers.
	snapshots, err := ps.statsRepo.GetBySessionIDs(ctx, nil, endedIDs)
	if err != nil {
		return nil, serviceError(ps.log, "GetByUsername", err)
	}
	frozen := make(map[uuid.UUID]*types.ArchivedSessionStats, len(snapshots))
	for _, snapshot := range snapshots {
		frozen[snapshot.SessionID] = snapshot
	}

	profile := &Profile{
		User:         user,
		PastSessions: []*SessionSummary{},
	}
	liveCount := 0
	for _, session := range sessions {
		summary := &SessionSummary{Session: session}
		if snapshot, ok := frozen[session.ID]; ok {
			summary.Stats = types.SessionStats{
				TotalTips:         snapshot.TotalTips,
				TotalQuestions:    snapshot.TotalQuestions,
				TotalParticipants: snapshot.TotalParticipants,
			}
		} else {
			questionCount, err := ps.questionRepo.CountBySession(ctx, nil, session.ID)
			if err != nil {
				return nil, serviceError(ps.log, "GetByUsername", err)
			}
			tipTotal, err := ps.tipRepo.SumAmountBySession(ctx, nil, session.ID)
			if err != nil {
				return nil, serviceError(ps.log, "GetByUsername", err)
			}
			summary.Stats = types.SessionStats{
				TotalQuestions: questionCount,
				TotalTips:      tipTotal,
			}
		}

		if session.IsLive() {
			liveCount++
			profile.CurrentSession = summary
		} else {
			profile.PastSessions = append(profile.PastSessions, summary)
		}
	}

	profile.Stats = ProfileStats{
		TotalSessions:  len(sessions),
		TotalQuestions: totalQuestions,
		TotalTips:      totalTips,
		LiveSessions:   liveCount,
		EndedSessions:  len(sessions) - liveCount,
	}
	return profile, nil
}

// BestFriends ranks the users who interacted most with fid's sessions:
// each question counts once, each tip counts double, and the creator's own
// activity is excluded. At most the top ten are returned, with user
// details, highest score first.
func (ps *profileService) BestFriends(ctx context.Context, fid string) ([]*BestFriend, error) {
	fid = strings.TrimSpace(fid)
	if fid == "" {
		return nil, apierr.Validation("missing_fid", fmt.Errorf("fid is required"))
	}

	sessions, err := ps.sessionRepo.ListByCreator(ctx, nil, fid)
	if err != nil {
		return nil, serviceError(ps.log, "BestFriends", err)
	}
	friends := []*BestFriend{}
	if len(sessions) == 0 {
		return friends, nil
	}
	sessionIDs := make([]uuid.UUID, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}

	askerCounts, err := ps.questionRepo.CountByAsker(ctx, nil, sessionIDs, fid)
	if err != nil {
		return nil, serviceError(ps.log, "BestFriends", err)
	}
	senderCounts, err := ps.tipRepo.CountBySender(ctx, nil, sessionIDs, fid)
	if err != nil {
		return nil, serviceError(ps.log, "BestFriends", err)
	}

	scores := make(map[string]int64, len(askerCounts)+len(senderCounts))
	for _, c := range askerCounts {
		scores[c.Fid] += c.Count * questionInteractionWeight
	}
	for _, c := range senderCounts {
		scores[c.Fid] += c.Count * tipInteractionWeight
	}
	if len(scores) == 0 {
		return friends, nil
	}

	ranked := make([]string, 0, len(scores))
	for participant := range scores {
		ranked = append(ranked, participant)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > bestFriendLimit {
		ranked = ranked[:bestFriendLimit]
	}

	users, err := ps.userRepo.GetByFids(ctx, nil, ranked)
	if err != nil {
		return nil, serviceError(ps.log, "BestFriends", err)
	}
	byFid := make(map[string]*types.User, len(users))
	for _, user := range users {
		byFid[user.Fid] = user
	}

	// Participants without a user row are dropped; ranking order is kept.
	for _, participant := range ranked {
		user, ok := byFid[participant]
		if !ok {
			continue
		}
		friends = append(friends, &BestFriend{
			User:             user,
			InteractionCount: scores[participant],
		})
	}
	return friends, nil
}
