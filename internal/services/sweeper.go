package services

import (
	"context"
	"time"

	"github.com/amacast/amacast-backend/internal/data/repos"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

// SweeperService force-archives live sessions whose deadline has passed,
// running the same transition a host-initiated end uses. One bad session
// never aborts the rest of a sweep.
type SweeperService interface {
	Run(ctx context.Context) error
	Sweep(ctx context.Context) (ended int, failed int)
}

type sweeperService struct {
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	sessions    SessionService
	interval    time.Duration
}

func NewSweeperService(log *logger.Logger, sessionRepo repos.SessionRepo, sessions SessionService, interval time.Duration) SweeperService {
	serviceLog := log.With("service", "SweeperService")
	if interval <= 0 {
		interval = time.Minute
	}
	return &sweeperService{
		log:         serviceLog,
		sessionRepo: sessionRepo,
		sessions:    sessions,
		interval:    interval,
	}
}

// Run blocks, sweeping on every tick until ctx is cancelled. It always
// returns nil so a shutdown never reads as a failure.
func (sw *sweeperService) Run(ctx context.Context) error {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()
	sw.log.Info("Expiry sweeper started", "interval", sw.interval.String())
	for {
		select {
		case <-ctx.Done():
			sw.log.Info("Expiry sweeper stopped")
			return nil
		case <-ticker.C:
			sw.Sweep(ctx)
		}
	}
}

func (sw *sweeperService) Sweep(ctx context.Context) (int, int) {
	expired, err := sw.sessionRepo.ListExpired(ctx, nil, time.Now().UTC())
	if err != nil {
		sw.log.Error("Sweep: listing expired sessions failed", "error", err)
		return 0, 0
	}
	if len(expired) == 0 {
		return 0, 0
	}

	ended, failed := 0, 0
	for _, session := range expired {
		if _, err := sw.sessions.Expire(ctx, session.ID); err != nil {
			failed++
			sw.log.Error("Sweep: expiring session failed",
				"session_id", session.ID, "error", err)
			continue
		}
		ended++
	}
	sw.log.Info("Sweep finished", "ended", ended, "failed", failed)
	return ended, failed
}
