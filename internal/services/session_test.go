package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/amacast/amacast-backend/internal/data/repos/testutil"
	types "github.com/amacast/amacast-backend/internal/domain"
	"github.com/amacast/amacast-backend/internal/platform/apierr"
)

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	var appErr *apierr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	if appErr.Status != status || appErr.Code != code {
		t.Fatalf("error: want=%d/%s got=%d/%s", status, code, appErr.Status, appErr.Code)
	}
}

func TestSessionServiceCreateValidatesFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)

	_, err := h.sessions.Create(ctx, fid, "  ", "still a description")
	requireAPIError(t, err, 400, "missing_fields")

	_, err = h.sessions.Create(ctx, fid, "A title", "")
	requireAPIError(t, err, 400, "missing_fields")
}

func TestSessionServiceCreateSetsDeadline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)

	session, err := h.sessions.Create(ctx, fid, "Ask me anything", "About whatever")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.Status != types.SessionStatusLive {
		t.Fatalf("status: want=%q got=%q", types.SessionStatusLive, session.Status)
	}
	if got := session.EndsAt.Sub(session.CreatedAt); got != types.SessionDuration {
		t.Fatalf("deadline window: want=%v got=%v", types.SessionDuration, got)
	}
}

func TestSessionServiceCreateConflictsWhileLive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)

	first, err := h.sessions.Create(ctx, fid, "First", "first desc")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	_, err = h.sessions.Create(ctx, fid, "Second", "second desc")
	requireAPIError(t, err, 409, "live_session_exists")

	// Ending the live session frees the creator to host another.
	if _, err := h.sessions.End(ctx, first.ID, fid); err != nil {
		t.Fatalf("end first: %v", err)
	}
	if _, err := h.sessions.Create(ctx, fid, "Second", "second desc"); err != nil {
		t.Fatalf("create after end: %v", err)
	}
}

func TestSessionServiceEndArchivesAndFreezesStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)
	session, err := h.sessions.Create(ctx, fid, "Stats", "stats desc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	asker := testutil.Fid(t)
	testutil.SeedUser(t, h.db, asker)
	testutil.SeedQuestion(t, h.db, session.ID, asker, "why?")
	testutil.SeedTip(t, h.db, session.ID, asker, 2.5)

	ended, err := h.sessions.End(ctx, session.ID, fid)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != types.SessionStatusEnded {
		t.Fatalf("status: want=%q got=%q", types.SessionStatusEnded, ended.Status)
	}

	snapshot, err := h.statsRepo.GetBySessionID(ctx, nil, session.ID)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snapshot == nil {
		t.Fatalf("ended session has no archived stats")
	}
	if snapshot.TotalQuestions != 1 || snapshot.TotalTips != 2.5 || snapshot.TotalParticipants != 1 {
		t.Fatalf("snapshot: %+v", snapshot)
	}

	// Activity recorded after the end never changes the frozen numbers.
	testutil.SeedTip(t, h.db, session.ID, asker, 100)
	detail, err := h.sessions.GetDetail(ctx, session.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Stats.TotalTips != 2.5 {
		t.Fatalf("frozen total tips: want=2.5 got=%v", detail.Stats.TotalTips)
	}
}

func TestSessionServiceEndIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)
	session, err := h.sessions.Create(ctx, fid, "Twice", "end twice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := h.sessions.End(ctx, session.ID, fid); err != nil {
		t.Fatalf("first end: %v", err)
	}
	again, err := h.sessions.End(ctx, session.ID, fid)
	if err != nil {
		t.Fatalf("second end should be idempotent: %v", err)
	}
	if again.Status != types.SessionStatusEnded {
		t.Fatalf("status: want=%q got=%q", types.SessionStatusEnded, again.Status)
	}

	snapshots, err := h.statsRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("snapshots after double end: want=1 got=%d", len(snapshots))
	}
}

func TestSessionServiceEndRequiresCreator(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	stranger := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)
	testutil.SeedUser(t, h.db, stranger)

	session, err := h.sessions.Create(ctx, fid, "Mine", "my session")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = h.sessions.End(ctx, session.ID, stranger)
	requireAPIError(t, err, 403, "not_session_creator")

	_, err = h.sessions.End(ctx, uuid.New(), fid)
	requireAPIError(t, err, 404, "session_not_found")
}

func TestSessionServiceListIncludesCreatorAndStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)
	session, err := h.sessions.Create(ctx, fid, "Listed", "list desc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	asker := testutil.Fid(t)
	testutil.SeedUser(t, h.db, asker)
	testutil.SeedQuestion(t, h.db, session.ID, asker, "hm?")
	testutil.SeedTip(t, h.db, session.ID, asker, 1.5)

	summaries, err := h.sessions.List(ctx, types.SessionFilter{CreatorFid: fid})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries: want=1 got=%d", len(summaries))
	}
	got := summaries[0]
	if got.Creator == nil || got.Creator.Fid != fid {
		t.Fatalf("creator missing: %+v", got.Creator)
	}
	if got.Stats.TotalQuestions != 1 || got.Stats.TotalTips != 1.5 {
		t.Fatalf("stats: %+v", got.Stats)
	}
}

func TestSessionServiceCreateRaceKeepsOneLive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.sessions.Create(ctx, fid, "Racing", "two creates, same creator")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, conflicted int
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		requireAPIError(t, err, 409, "live_session_exists")
		conflicted++
	}
	if created != 1 || conflicted != 1 {
		t.Fatalf("outcomes: want 1 create and 1 conflict, got create=%d conflict=%d", created, conflicted)
	}

	sessions, err := h.sessionRepo.ListByCreator(ctx, nil, fid)
	if err != nil {
		t.Fatalf("list by creator: %v", err)
	}
	var live int
	for _, s := range sessions {
		if s.Status == types.SessionStatusLive {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("live sessions after race: want=1 got=%d", live)
	}
}

func TestSessionServiceEndRaceArchivesOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)
	session, err := h.sessions.Create(ctx, fid, "Closing time", "ending twice at once")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	asker := testutil.Fid(t)
	testutil.SeedUser(t, h.db, asker)
	testutil.SeedQuestion(t, h.db, session.ID, asker, "last call?")
	testutil.SeedTip(t, h.db, session.ID, asker, 1.5)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.sessions.End(ctx, session.ID, fid)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Both enders resolve cleanly: the loser of the race lands on the
	// already-ended session or the existing snapshot.
	for err := range errs {
		if err != nil {
			t.Fatalf("end: %v", err)
		}
	}

	snapshots, err := h.statsRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("snapshots after race: want=1 got=%d", len(snapshots))
	}
	if snapshots[0].TotalQuestions != 1 || snapshots[0].TotalTips != 1.5 {
		t.Fatalf("snapshot: %+v", snapshots[0])
	}
}
