package services_test

import (
	"context"
	"testing"

	"github.com/amacast/amacast-backend/internal/data/repos/testutil"
	types "github.com/amacast/amacast-backend/internal/domain"
)

func TestStatsServiceComputeLiveCountsParticipantsOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	host := testutil.Fid(t)
	testutil.SeedUser(t, h.db, host)
	session := testutil.SeedSession(t, h.db, host, types.SessionStatusLive)

	// One user both asks and tips; another only tips. Two participants.
	both := testutil.Fid(t)
	tipper := testutil.Fid(t)
	testutil.SeedUser(t, h.db, both)
	testutil.SeedUser(t, h.db, tipper)
	testutil.SeedQuestion(t, h.db, session.ID, both, "counted once?")
	testutil.SeedTip(t, h.db, session.ID, both, 1)
	testutil.SeedTip(t, h.db, session.ID, tipper, 3)

	stats, err := h.stats.ComputeLive(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if stats.TotalParticipants != 2 {
		t.Fatalf("participants: want=2 got=%d", stats.TotalParticipants)
	}
	if stats.TotalQuestions != 1 || stats.TotalTips != 4 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.AverageTipAmount != 2 {
		t.Fatalf("average tip: want=2 got=%v", stats.AverageTipAmount)
	}
}

func TestStatsServiceComputeLiveEmptySession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	host := testutil.Fid(t)
	testutil.SeedUser(t, h.db, host)
	session := testutil.SeedSession(t, h.db, host, types.SessionStatusLive)

	stats, err := h.stats.ComputeLive(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if stats.TotalQuestions != 0 || stats.TotalTips != 0 || stats.TotalParticipants != 0 {
		t.Fatalf("empty session stats: %+v", stats)
	}
	if stats.AverageTipAmount != 0 {
		t.Fatalf("average with no tips: want=0 got=%v", stats.AverageTipAmount)
	}
}

func TestStatsServiceArchiveIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	host := testutil.Fid(t)
	testutil.SeedUser(t, h.db, host)
	session := testutil.SeedSession(t, h.db, host, types.SessionStatusLive)
	sender := testutil.Fid(t)
	testutil.SeedUser(t, h.db, sender)
	testutil.SeedTip(t, h.db, session.ID, sender, 7)

	first, err := h.stats.Archive(ctx, nil, session)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	// Ledger activity between the two calls must not leak into the snapshot.
	testutil.SeedTip(t, h.db, session.ID, sender, 100)

	second, err := h.stats.Archive(ctx, nil, session)
	if err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the original snapshot row, got %s and %s", first.ID, second.ID)
	}
	if second.TotalTips != 7 {
		t.Fatalf("frozen total tips: want=7 got=%v", second.TotalTips)
	}
}

func TestStatsServiceForSessionServesSnapshotWhenEnded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	host := testutil.Fid(t)
	testutil.SeedUser(t, h.db, host)
	session := testutil.SeedSession(t, h.db, host, types.SessionStatusLive)
	sender := testutil.Fid(t)
	testutil.SeedUser(t, h.db, sender)
	testutil.SeedTip(t, h.db, session.ID, sender, 2)

	if _, err := h.stats.Archive(ctx, nil, session); err != nil {
		t.Fatalf("archive: %v", err)
	}
	session.Status = types.SessionStatusEnded
	testutil.SeedTip(t, h.db, session.ID, sender, 50)

	stats, err := h.stats.ForSession(ctx, session)
	if err != nil {
		t.Fatalf("for session: %v", err)
	}
	if stats.TotalTips != 2 {
		t.Fatalf("snapshot tips: want=2 got=%v", stats.TotalTips)
	}
}
