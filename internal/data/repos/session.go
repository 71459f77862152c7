package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

const sessionListCap = 50

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error)
	GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error)
	List(ctx context.Context, tx *gorm.DB, filter types.SessionFilter) ([]*types.Session, error)
	ListByCreator(ctx context.Context, tx *gorm.DB, creatorFid string) ([]*types.Session, error)
	FindLiveByCreator(ctx context.Context, tx *gorm.DB, creatorFid string) (*types.Session, error)
	ListExpired(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Session, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, status string) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Session
	err := transaction.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&result).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *sessionRepo) List(ctx context.Context, tx *gorm.DB, filter types.SessionFilter) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	limit := filter.Limit
	if limit <= 0 || limit > sessionListCap {
		limit = sessionListCap
	}

	query := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatorFid != "" {
		query = query.Where("creator_fid = ?", filter.CreatorFid)
	}

	var results []*types.Session
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) ListByCreator(ctx context.Context, tx *gorm.DB, creatorFid string) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Session
	if err := transaction.WithContext(ctx).
		Where("creator_fid = ?", creatorFid).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) FindLiveByCreator(ctx context.Context, tx *gorm.DB, creatorFid string) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Session
	err := transaction.WithContext(ctx).
		Where("creator_fid = ? AND status = ?", creatorFid, types.SessionStatusLive).
		First(&result).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *sessionRepo) ListExpired(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Session
	if err := transaction.WithContext(ctx).
		Where("status = ? AND ends_at < ?", types.SessionStatusLive, now).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("id = ?", sessionID).
		Update("status", status).Error
}
