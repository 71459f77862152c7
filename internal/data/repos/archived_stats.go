package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type ArchivedStatsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stats *types.ArchivedSessionStats) (*types.ArchivedSessionStats, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.ArchivedSessionStats, error)
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.ArchivedSessionStats, error)
}

type archivedStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArchivedStatsRepo(db *gorm.DB, baseLog *logger.Logger) ArchivedStatsRepo {
	repoLog := baseLog.With("repo", "ArchivedStatsRepo")
	return &archivedStatsRepo{db: db, log: repoLog}
}

func (ar *archivedStatsRepo) Create(ctx context.Context, tx *gorm.DB, stats *types.ArchivedSessionStats) (*types.ArchivedSessionStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (ar *archivedStatsRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.ArchivedSessionStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.ArchivedSessionStats
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&result).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ar *archivedStatsRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.ArchivedSessionStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.ArchivedSessionStats
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
