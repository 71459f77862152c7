package repos

import (
	"context"

	"gorm.io/gorm"

	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
	GetByFid(ctx context.Context, tx *gorm.DB, fid string) (*types.User, error)
	GetByFids(ctx context.Context, tx *gorm.DB, fids []string) ([]*types.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error)
	SearchByUsername(ctx context.Context, tx *gorm.DB, username string, limit int) ([]*types.User, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, fid string, updates map[string]any) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) GetByFid(ctx context.Context, tx *gorm.DB, fid string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	err := transaction.WithContext(ctx).
		Where("fid = ?", fid).
		First(&result).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) GetByFids(ctx context.Context, tx *gorm.DB, fids []string) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(fids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("fid IN ?", fids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	err := transaction.WithContext(ctx).
		Where("username = ?", username).
		First(&result).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) SearchByUsername(ctx context.Context, tx *gorm.DB, username string, limit int) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	query := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit)
	if username != "" {
		query = query.Where("username LIKE ?", "%"+username+"%")
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateProfile(ctx context.Context, tx *gorm.DB, fid string, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("fid = ?", fid).
		Updates(updates).Error
}
