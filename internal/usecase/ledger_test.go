package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	testhelpers "github.com/polkiloo/stampcard/internal/test"
)

func newLedger() (*LedgerUseCase, *testhelpers.MemberRepositoryStub) {
	repo := testhelpers.NewMemberRepositoryStub()
	return NewLedgerUseCase(repo, repo), repo
}

func TestUpsertMemberValidatesID(t *testing.T) {
	ledger, _ := newLedger()
	if _, err := ledger.UpsertMember(context.Background(), 0, "Ann", "ann"); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := ledger.UpsertMember(context.Background(), -5, "Ann", "ann"); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative id, got %v", err)
	}
}

func TestUpsertMemberPreservesCounters(t *testing.T) {
	ledger, repo := newLedger()
	ctx := context.Background()

	if _, err := ledger.UpsertMember(ctx, 42, "Ann", "ann"); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	repo.Members[42].Stamps = 7
	repo.Members[42].RewardBank = 2

	member, err := ledger.UpsertMember(ctx, 42, "Annie", "annie")
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if member.DisplayName != "Annie" || member.Username != "annie" {
		t.Fatalf("expected refreshed names, got %+v", member)
	}
	if member.Stamps != 7 || member.RewardBank != 2 {
		t.Fatalf("expected counters untouched, got %+v", member)
	}
}

func TestAddStampUncapped(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()
	if _, err := ledger.UpsertMember(ctx, 1, "Ann", "ann"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	var last int
	for i := 0; i < 12; i++ {
		n, err := ledger.AddStamp(ctx, 1)
		if err != nil {
			t.Fatalf("add stamp %d failed: %v", i, err)
		}
		last = n
	}
	if last != 12 {
		t.Fatalf("expected counter to pass ten, got %d", last)
	}
}

func TestAddStampUnknownMember(t *testing.T) {
	ledger, _ := newLedger()
	if _, err := ledger.AddStamp(context.Background(), 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRedeemResetsAndBanks(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()
	if _, err := ledger.UpsertMember(ctx, 1, "Ann", "ann"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := ledger.AddStamp(ctx, 1); err != nil {
			t.Fatalf("add stamp failed: %v", err)
		}
	}

	member, err := ledger.Redeem(ctx, 1, false)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if member.Stamps != 0 || member.RewardBank != 0 {
		t.Fatalf("expected plain reset, got %+v", member)
	}

	if _, err := ledger.AddStamp(ctx, 1); err != nil {
		t.Fatalf("add stamp failed: %v", err)
	}
	member, err = ledger.Redeem(ctx, 1, true)
	if err != nil {
		t.Fatalf("banked redeem failed: %v", err)
	}
	if member.Stamps != 0 || member.RewardBank != 1 {
		t.Fatalf("expected banked reward, got %+v", member)
	}
}

func TestListMembersValidation(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()

	if _, err := ledger.ListMembers(ctx, 0, 0); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero page size, got %v", err)
	}

	page, err := ledger.ListMembers(ctx, -3, 5)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Page != 0 {
		t.Fatalf("expected negative page clamped to 0, got %d", page.Page)
	}
}

func TestHistoryRequiresPositiveLimit(t *testing.T) {
	ledger, _ := newLedger()
	if _, err := ledger.History(context.Background(), 1, 0); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	ledger, _ := newLedger()
	ctx := context.Background()
	if _, err := ledger.UpsertMember(ctx, 1, "Ann", "ann"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := ledger.AddStamp(ctx, 1); err != nil {
			t.Fatalf("add stamp failed: %v", err)
		}
	}

	entries, err := ledger.History(ctx, 1, 2)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected limit applied, got %d entries", len(entries))
	}
	if entries[0].ID < entries[1].ID {
		t.Fatalf("expected newest first, got %+v", entries)
	}
}
