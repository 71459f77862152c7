package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/apierr"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// QuestionService is the append-only question ledger. Questions can only be
// submitted while the session is live; answering stays open to the creator
// even after the session ends.
type QuestionService interface {
	Submit(ctx context.Context, sessionID uuid.UUID, askerFid, content string) (*types.Question, error)
	Answer(ctx context.Context, questionID uuid.UUID, answer, requesterFid string) (*types.Question, error)
	List(ctx context.Context, filter types.QuestionFilter) ([]*types.Question, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	sessionRepo  repos.SessionRepo
	userRepo     repos.UserRepo
}

func NewQuestionService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, sessionRepo repos.SessionRepo, userRepo repos.UserRepo) QuestionService {
	serviceLog := log.With("service", "QuestionService")
	return &questionService{
		db:           db,
		log:          serviceLog,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
	}
}

func (qs *questionService) Submit(ctx context.Context, sessionID uuid.UUID, askerFid, content string) (*types.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierr.Validation("missing_content", fmt.Errorf("content is required"))
	}

	var out *types.Question
	if err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := qs.sessionRepo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apierr.NotFound("session_not_found", fmt.Errorf("session not found"))
		}
		if !session.IsLive() {
			return apierr.Conflict("session_not_live", fmt.Errorf("session is not live"))
		}

		// Askers must already exist; identity resolution is the caller's
		// responsibility, not this ledger's.
		asker, err := qs.userRepo.GetByFid(ctx, tx, askerFid)
		if err != nil {
			return err
		}
		if asker == nil {
			return apierr.NotFound("user_not_found",
				fmt.Errorf("user not found, create user first"))
		}

		created, err := qs.questionRepo.Create(ctx, tx, &types.Question{
			ID:        uuid.New(),
			SessionID: session.ID,
			AskerFid:  askerFid,
			Content:   content,
		})
		if err != nil {
			return err
		}
		out = created
		return nil
	}); err != nil {
		return nil, serviceError(qs.log, "Submit", err)
	}
	return out, nil
}

func (qs *questionService) Answer(ctx context.Context, questionID uuid.UUID, answer, requesterFid string) (*types.Question, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, apierr.Validation("missing_answer", fmt.Errorf("answer is required"))
	}

	var out *types.Question
	if err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question, err := qs.questionRepo.GetByID(ctx, tx, questionID)
		if err != nil {
			return err
		}
		if question == nil {
			return apierr.NotFound("question_not_found", fmt.Errorf("question not found"))
		}

		session, err := qs.sessionRepo.GetByID(ctx, tx, question.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apierr.NotFound("session_not_found", fmt.Errorf("session not found"))
		}
		if session.CreatorFid != requesterFid {
			return apierr.Forbidden("not_session_creator",
				fmt.Errorf("only the session creator can answer questions"))
		}

		if err := qs.questionRepo.SetAnswer(ctx, tx, question.ID, answer); err != nil {
			return err
		}
		question.Answer = answer
		out = question
		return nil
	}); err != nil {
		return nil, serviceError(qs.log, "Answer", err)
	}
	return out, nil
}

func (qs *questionService) List(ctx context.Context, filter types.QuestionFilter) ([]*types.Question, error) {
	questions, err := qs.questionRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, serviceError(qs.log, "List", err)
	}
	return questions, nil
}
