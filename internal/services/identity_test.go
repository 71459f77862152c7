package services_test

import (
	"context"
	"testing"

	"github.com/amacast/amacast-backend/internal/data/repos/testutil"
	types "github.com/amacast/amacast-backend/internal/domain"
)

func TestIdentityServiceResolveCreatesWithDefaultUsername(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	user, err := h.identity.ResolveIdentity(ctx, types.VerifiedIdentity{Fid: fid})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Username != "user-"+fid {
		t.Fatalf("default username: want=%q got=%q", "user-"+fid, user.Username)
	}
}

func TestIdentityServiceResolveRefreshesProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	if _, err := h.identity.ResolveIdentity(ctx, types.VerifiedIdentity{
		Fid:      fid,
		Username: "original",
		PfpURL:   "https://img.example/one.png",
	}); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	user, err := h.identity.ResolveIdentity(ctx, types.VerifiedIdentity{
		Fid:      fid,
		Username: "renamed",
	})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if user.Username != "renamed" {
		t.Fatalf("username: want=%q got=%q", "renamed", user.Username)
	}
	// An absent pfp never blanks the stored one.
	if user.PfpURL != "https://img.example/one.png" {
		t.Fatalf("pfp url: want preserved, got %q", user.PfpURL)
	}
}

func TestIdentityServiceResolveRequiresFid(t *testing.T) {
	h := newHarness(t)

	_, err := h.identity.ResolveIdentity(context.Background(), types.VerifiedIdentity{Fid: "  "})
	requireAPIError(t, err, 400, "missing_fid")
}

func TestIdentityServiceAttachWallet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)

	user, err := h.identity.AttachWallet(ctx, fid, "0xwallet")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if user.WalletAddress != "0xwallet" {
		t.Fatalf("wallet: want=%q got=%q", "0xwallet", user.WalletAddress)
	}

	// Attaching the same address again is a no-op, not an error.
	if _, err := h.identity.AttachWallet(ctx, fid, "0xwallet"); err != nil {
		t.Fatalf("re-attach: %v", err)
	}

	_, err = h.identity.AttachWallet(ctx, fid, "")
	requireAPIError(t, err, 400, "missing_wallet_address")

	_, err = h.identity.AttachWallet(ctx, testutil.Fid(t), "0xother")
	requireAPIError(t, err, 404, "user_not_found")
}

func TestIdentityServiceGetByFid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	testutil.SeedUser(t, h.db, fid)

	user, err := h.identity.GetByFid(ctx, fid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Fid != fid {
		t.Fatalf("fid: want=%q got=%q", fid, user.Fid)
	}

	_, err = h.identity.GetByFid(ctx, testutil.Fid(t))
	requireAPIError(t, err, 404, "user_not_found")
}

func TestIdentityServiceSearchUsers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fid := testutil.Fid(t)
	if _, err := h.identity.ResolveIdentity(ctx, types.VerifiedIdentity{
		Fid:      fid,
		Username: "findable-" + fid,
	}); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	users, err := h.identity.SearchUsers(ctx, "findable-"+fid, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(users) != 1 || users[0].Fid != fid {
		t.Fatalf("expected the created user, got %d rows", len(users))
	}
}
