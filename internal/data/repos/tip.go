package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

const tipListCap = 100

type TipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tip *types.Tip) (*types.Tip, error)
	List(ctx context.Context, tx *gorm.DB, filter types.TipFilter) ([]*types.Tip, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Tip, error)
	SumAmountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (float64, error)
	SumAmountBySessions(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) (float64, error)
	CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
	ListSenderFids(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]string, error)
	CountBySender(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, excludeFid string) ([]FidCount, error)
}

type tipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTipRepo(db *gorm.DB, baseLog *logger.Logger) TipRepo {
	repoLog := baseLog.With("repo", "TipRepo")
	return &tipRepo{db: db, log: repoLog}
}

func (tr *tipRepo) Create(ctx context.Context, tx *gorm.DB, tip *types.Tip) (*types.Tip, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if err := transaction.WithContext(ctx).Create(tip).Error; err != nil {
		return nil, err
	}
	return tip, nil
}

func (tr *tipRepo) List(ctx context.Context, tx *gorm.DB, filter types.TipFilter) ([]*types.Tip, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	limit := filter.Limit
	if limit <= 0 || limit > tipListCap {
		limit = tipListCap
	}

	query := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit)
	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.SenderFid != "" {
		query = query.Where("sender_fid = ?", filter.SenderFid)
	}

	var results []*types.Tip
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tipRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Tip, error) {
	return tr.List(ctx, tx, types.TipFilter{SessionID: &sessionID})
}

func (tr *tipRepo) SumAmountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (float64, error) {
	return tr.SumAmountBySessions(ctx, tx, []uuid.UUID{sessionID})
}

func (tr *tipRepo) CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Tip{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (tr *tipRepo) ListSenderFids(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var fids []string
	if err := transaction.WithContext(ctx).
		Model(&types.Tip{}).
		Where("session_id = ?", sessionID).
		Distinct().
		Pluck("sender_fid", &fids).Error; err != nil {
		return nil, err
	}
	return fids, nil
}

func (tr *tipRepo) SumAmountBySessions(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(sessionIDs) == 0 {
		return 0, nil
	}

	var total float64
	if err := transaction.WithContext(ctx).
		Model(&types.Tip{}).
		Where("session_id IN ?", sessionIDs).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (tr *tipRepo) CountBySender(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, excludeFid string) ([]FidCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var counts []FidCount
	if len(sessionIDs) == 0 {
		return counts, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Tip{}).
		Select("sender_fid AS fid, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Where("sender_fid <> ?", excludeFid).
		Group("sender_fid").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
