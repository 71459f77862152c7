package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

const questionListCap = 100

// FidCount pairs a participant fid with how many ledger rows it produced.
type FidCount struct {
	Fid   string `gorm:"column:fid"`
	Count int64  `gorm:"column:n"`
}

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error)
	GetByID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error)
	List(ctx context.Context, tx *gorm.DB, filter types.QuestionFilter) ([]*types.Question, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Question, error)
	CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
	CountBySessions(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) (int64, error)
	CountAnsweredBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
	ListAskerFids(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]string, error)
	CountByAsker(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, excludeFid string) ([]FidCount, error)
	SetAnswer(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, answer string) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (qr *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var result types.Question
	err := transaction.WithContext(ctx).
		Where("id = ?", questionID).
		First(&result).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (qr *questionRepo) List(ctx context.Context, tx *gorm.DB, filter types.QuestionFilter) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	limit := filter.Limit
	if limit <= 0 || limit > questionListCap {
		limit = questionListCap
	}

	query := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit)
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.AskerFid != "" {
		query = query.Where("asker_fid = ?", filter.AskerFid)
	}

	var results []*types.Question
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Question, error) {
	return qr.List(ctx, tx, types.QuestionFilter{SessionID: &sessionID})
}

func (qr *questionRepo) CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	return qr.CountBySessions(ctx, tx, []uuid.UUID{sessionID})
}

func (qr *questionRepo) CountBySessions(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	if len(sessionIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("session_id IN ?", sessionIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (qr *questionRepo) CountAnsweredBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("session_id = ? AND answer <> ''", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (qr *questionRepo) ListAskerFids(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var fids []string
	if err := transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("session_id = ?", sessionID).
		Distinct().
		Pluck("asker_fid", &fids).Error; err != nil {
		return nil, err
	}
	return fids, nil
}

func (qr *questionRepo) CountByAsker(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, excludeFid string) ([]FidCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var counts []FidCount
	if len(sessionIDs) == 0 {
		return counts, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Question{}).
		Select("asker_fid AS fid, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Where("asker_fid <> ?", excludeFid).
		Group("asker_fid").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (qr *questionRepo) SetAnswer(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, answer string) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("id = ?", questionID).
		Update("answer", answer).Error
}
