package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/amacast/amacast-backend/internal/data/repos"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/apierr"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// IdentityService resolves the auth collaborator's verified identity into a
// durable User row.
type IdentityService interface {
	ResolveIdentity(ctx context.Context, identity types.VerifiedIdentity) (*types.User, error)
	AttachWallet(ctx context.Context, fid, address string) (*types.User, error)
	GetByFid(ctx context.Context, fid string) (*types.User, error)
	SearchUsers(ctx context.Context, username string, limit int) ([]*types.User, error)
}

type identityService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewIdentityService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) IdentityService {
	serviceLog := log.With("service", "IdentityService")
	return &identityService{db: db, log: serviceLog, userRepo: userRepo}
}

func (is *identityService) ResolveIdentity(ctx context.Context, identity types.VerifiedIdentity) (*types.User, error) {
	fid := strings.TrimSpace(identity.Fid)
	if fid == "" {
		return nil, apierr.Validation("missing_fid", fmt.Errorf("fid is required"))
	}

	var out *types.User
	if err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := is.userRepo.GetByFid(ctx, tx, fid)
		if err != nil {
			return err
		}

		if existing == nil {
			username := identity.Username
			if username == "" {
				username = "user-" + fid
			}
			created, err := is.userRepo.Create(ctx, tx, &types.User{
				Fid:      fid,
				Username: username,
				PfpURL:   identity.PfpURL,
			})
			if err != nil {
				// Two first logins racing: the other one won, reuse its row.
				if repos.IsDuplicate(err) {
					existing, err = is.userRepo.GetByFid(ctx, tx, fid)
					if err != nil {
						return err
					}
					out = existing
					return nil
				}
				return err
			}
			out = created
			return nil
		}

		// Refresh only fields that arrived non-empty and actually changed;
		// an absent value never blanks a stored one.
		updates := map[string]any{}
		if identity.Username != "" && identity.Username != existing.Username {
			updates["username"] = identity.Username
		}
		if identity.PfpURL != "" && identity.PfpURL != existing.PfpURL {
			updates["pfp_url"] = identity.PfpURL
		}
		if len(updates) > 0 {
			if err := is.userRepo.UpdateProfile(ctx, tx, fid, updates); err != nil {
				return err
			}
			existing, err = is.userRepo.GetByFid(ctx, tx, fid)
			if err != nil {
				return err
			}
		}
		out = existing
		return nil
	}); err != nil {
		return nil, serviceError(is.log, "ResolveIdentity", err)
	}
	return out, nil
}

func (is *identityService) AttachWallet(ctx context.Context, fid, address string) (*types.User, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apierr.Validation("missing_wallet_address", fmt.Errorf("wallet address is required"))
	}

	var out *types.User
	if err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := is.userRepo.GetByFid(ctx, tx, fid)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.NotFound("user_not_found", fmt.Errorf("user not found"))
		}
		if user.WalletAddress == address {
			out = user
			return nil
		}
		if err := is.userRepo.UpdateProfile(ctx, tx, fid, map[string]any{"wallet_address": address}); err != nil {
			return err
		}
		user.WalletAddress = address
		out = user
		return nil
	}); err != nil {
		return nil, serviceError(is.log, "AttachWallet", err)
	}
	return out, nil
}

func (is *identityService) GetByFid(ctx context.Context, fid string) (*types.User, error) {
	user, err := is.userRepo.GetByFid(ctx, nil, fid)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", fmt.Errorf("user not found"))
	}
	return user, nil
}

func (is *identityService) SearchUsers(ctx context.Context, username string, limit int) ([]*types.User, error) {
	if limit <= 0 {
		limit = 10
	}
	users, err := is.userRepo.SearchByUsername(ctx, nil, username, limit)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return users, nil
}
