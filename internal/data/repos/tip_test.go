package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amacast/amacast-backend/internal/data/repos"
	"github.com/amacast/amacast-backend/internal/data/repos/testutil"
	types "github.com/amacast/amacast-backend/internal/domain"
)

func TestTipRepoTxHashUnique(t *testing.T) {
	gdb := testutil.Open(t)
	log := testutil.Logger(t)
	repo := repos.NewTipRepo(gdb, log)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, gdb, fid)
	session := testutil.SeedSession(t, gdb, fid, types.SessionStatusLive)

	txHash := "0x" + uuid.NewString()
	first := &types.Tip{
		ID:        uuid.New(),
		SessionID: session.ID,
		SenderFid: fid,
		Amount:    1.5,
		TxHash:    txHash,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := repo.Create(ctx, nil, first); err != nil {
		t.Fatalf("create tip: %v", err)
	}

	replay := &types.Tip{
		ID:        uuid.New(),
		SessionID: session.ID,
		SenderFid: fid,
		Amount:    1.5,
		TxHash:    txHash,
		CreatedAt: time.Now().UTC(),
	}
	_, err := repo.Create(ctx, nil, replay)
	if err == nil {
		t.Fatalf("expected duplicate error for replayed tx hash")
	}
	if !repos.IsDuplicate(err) {
		t.Fatalf("expected IsDuplicate(err), got %v", err)
	}
}

func TestTipRepoAggregates(t *testing.T) {
	gdb := testutil.Open(t)
	log := testutil.Logger(t)
	repo := repos.NewTipRepo(gdb, log)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, gdb, fid)
	session := testutil.SeedSession(t, gdb, fid, types.SessionStatusLive)

	// Empty session sums to zero, not an error.
	sum, err := repo.SumAmountBySession(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("sum with no tips: %v", err)
	}
	if sum != 0 {
		t.Fatalf("sum: want=0 got=%v", sum)
	}

	senderA := testutil.Fid(t)
	senderB := testutil.Fid(t)
	testutil.SeedUser(t, gdb, senderA)
	testutil.SeedUser(t, gdb, senderB)
	testutil.SeedTip(t, gdb, session.ID, senderA, 1.25)
	testutil.SeedTip(t, gdb, session.ID, senderA, 2.0)
	testutil.SeedTip(t, gdb, session.ID, senderB, 0.75)

	sum, err = repo.SumAmountBySession(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 4.0 {
		t.Fatalf("sum: want=4 got=%v", sum)
	}

	count, err := repo.CountBySession(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count: want=3 got=%d", count)
	}

	// Senders are deduplicated.
	senders, err := repo.ListSenderFids(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("list senders: %v", err)
	}
	if len(senders) != 2 {
		t.Fatalf("distinct senders: want=2 got=%d (%v)", len(senders), senders)
	}
}

func TestTipRepoListBySession(t *testing.T) {
	gdb := testutil.Open(t)
	log := testutil.Logger(t)
	repo := repos.NewTipRepo(gdb, log)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, gdb, fid)
	session := testutil.SeedSession(t, gdb, fid, types.SessionStatusLive)
	other := testutil.Fid(t)
	testutil.SeedUser(t, gdb, other)
	otherSession := testutil.SeedSession(t, gdb, other, types.SessionStatusLive)

	testutil.SeedTip(t, gdb, session.ID, fid, 1)
	testutil.SeedTip(t, gdb, otherSession.ID, other, 2)

	tips, err := repo.ListBySession(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("list by session: %v", err)
	}
	if len(tips) != 1 || tips[0].SessionID != session.ID {
		t.Fatalf("expected 1 tip for session %s, got %d", session.ID, len(tips))
	}
}
