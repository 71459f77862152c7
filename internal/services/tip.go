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

// TipService records monetary tips against a session. The tx hash is the
// idempotency boundary: a retried client call or duplicate webhook delivery
// for the same on-chain transaction hits the unique index and conflicts.
// Amount and token are trusted input from the wallet collaborator; nothing
// here reads the chain.
type TipService interface {
	Record(ctx context.Context, sessionID uuid.UUID, senderFid string, amount float64, txHash string) (*types.Tip, error)
	List(ctx context.Context, filter types.TipFilter) ([]*types.Tip, error)
}

type tipService struct {
	db          *gorm.DB
	log         *logger.Logger
	tipRepo     repos.TipRepo
	sessionRepo repos.SessionRepo
	userRepo    repos.UserRepo
}

func NewTipService(db *gorm.DB, log *logger.Logger, tipRepo repos.TipRepo, sessionRepo repos.SessionRepo, userRepo repos.UserRepo) TipService {
	serviceLog := log.With("service", "TipService")
	return &tipService{
		db:          db,
		log:         serviceLog,
		tipRepo:     tipRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

func (ts *tipService) Record(ctx context.Context, sessionID uuid.UUID, senderFid string, amount float64, txHash string) (*types.Tip, error) {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return nil, apierr.Validation("missing_tx_hash", fmt.Errorf("txHash is required"))
	}
	if amount <= 0 {
		return nil, apierr.Validation("invalid_amount",
			fmt.Errorf("amount must be greater than 0"))
	}

	var out *types.Tip
	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := ts.sessionRepo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apierr.NotFound("session_not_found", fmt.Errorf("session not found"))
		}

		sender, err := ts.userRepo.GetByFid(ctx, tx, senderFid)
		if err != nil {
			return err
		}
		if sender == nil {
			return apierr.NotFound("user_not_found",
				fmt.Errorf("user not found, create user first"))
		}

		created, err := ts.tipRepo.Create(ctx, tx, &types.Tip{
			ID:        uuid.New(),
			SessionID: session.ID,
			SenderFid: senderFid,
			Amount:    amount,
			TxHash:    txHash,
		})
		if err != nil {
			if repos.IsDuplicate(err) {
				return apierr.Conflict("tip_already_recorded",
					fmt.Errorf("tip with this transaction hash already exists"))
			}
			return err
		}
		out = created
		return nil
	}); err != nil {
		return nil, serviceError(ts.log, "Record", err)
	}
	ts.log.Info("Tip recorded", "session_id", out.SessionID, "tx_hash", txHash)
	return out, nil
}

func (ts *tipService) List(ctx context.Context, filter types.TipFilter) ([]*types.Tip, error) {
	tips, err := ts.tipRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, serviceError(ts.log, "List", err)
	}
	return tips, nil
}
