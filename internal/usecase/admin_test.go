package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	pkgAuth "github.com/polkiloo/stampcard/internal/pkg/auth"
	"github.com/polkiloo/stampcard/internal/session"
	testhelpers "github.com/polkiloo/stampcard/internal/test"
)

const operatorID = int64(100)

func newAdmin(t *testing.T) (*AdminUseCase, *session.Manager, *testhelpers.MemberRepositoryStub) {
	t.Helper()
	repo := testhelpers.NewMemberRepositoryStub()
	ledger := NewLedgerUseCase(repo, repo)
	sessions, err := session.NewManager("espresso", pkgAuth.NewBcryptHasher(4), time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return NewAdminUseCase(sessions, ledger), sessions, repo
}

func authenticate(t *testing.T, sessions *session.Manager) {
	t.Helper()
	if !sessions.BeginLogin(operatorID, nil) {
		t.Fatal("expected login prompt to open")
	}
	if _, err := sessions.SubmitPassword(operatorID, "espresso"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
}

func seedMember(t *testing.T, repo *testhelpers.MemberRepositoryStub, id int64) {
	t.Helper()
	if _, err := repo.Upsert(context.Background(), id, "Ann", "ann"); err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func TestAdminRejectsUnauthenticatedWithoutTouchingLedger(t *testing.T) {
	admin, _, repo := newAdmin(t)
	seedMember(t, repo, 1)
	ctx := context.Background()

	if _, err := admin.AddStampFor(ctx, operatorID, 1); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := admin.RedeemFor(ctx, operatorID, 1, false); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := admin.HistoryFor(ctx, operatorID, 1, 5); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := admin.ListPage(ctx, operatorID, 0, 5); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := admin.SelectMember(ctx, operatorID, 1); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if repo.Members[1].Stamps != 0 || len(repo.Entries) != 0 {
		t.Fatalf("expected ledger untouched, got %+v / %d entries", repo.Members[1], len(repo.Entries))
	}
}

func TestAddStampForUpdatesSelection(t *testing.T) {
	admin, sessions, repo := newAdmin(t)
	seedMember(t, repo, 1)
	authenticate(t, sessions)

	member, err := admin.AddStampFor(context.Background(), operatorID, 1)
	if err != nil {
		t.Fatalf("add stamp failed: %v", err)
	}
	if member.Stamps != 1 {
		t.Fatalf("expected one stamp, got %d", member.Stamps)
	}

	state := sessions.State(operatorID)
	if state.Selected == nil || *state.Selected != 1 {
		t.Fatalf("expected selection on member 1, got %+v", state.Selected)
	}
}

func TestRedeemForBanksReward(t *testing.T) {
	admin, sessions, repo := newAdmin(t)
	seedMember(t, repo, 1)
	repo.Members[1].Stamps = 10
	authenticate(t, sessions)

	member, err := admin.RedeemFor(context.Background(), operatorID, 1, true)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if member.Stamps != 0 || member.RewardBank != 1 {
		t.Fatalf("expected banked reward, got %+v", member)
	}
}

func TestSelectMemberUnknownKeepsSelection(t *testing.T) {
	admin, sessions, repo := newAdmin(t)
	seedMember(t, repo, 1)
	authenticate(t, sessions)
	ctx := context.Background()

	if _, err := admin.SelectMember(ctx, operatorID, 1); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if _, err := admin.SelectMember(ctx, operatorID, 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	state := sessions.State(operatorID)
	if state.Selected == nil || *state.Selected != 1 {
		t.Fatalf("expected selection to survive failed lookup, got %+v", state.Selected)
	}
}

func TestListPageLeavesSelectionAlone(t *testing.T) {
	admin, sessions, repo := newAdmin(t)
	for id := int64(1); id <= 3; id++ {
		seedMember(t, repo, id)
	}
	authenticate(t, sessions)
	ctx := context.Background()

	if _, err := admin.SelectMember(ctx, operatorID, 2); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	page, err := admin.ListPage(ctx, operatorID, 0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Members) != 2 || !page.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}

	state := sessions.State(operatorID)
	if state.Selected == nil || *state.Selected != 2 {
		t.Fatalf("expected selection unchanged, got %+v", state.Selected)
	}
}

func TestHistoryForReturnsEntries(t *testing.T) {
	admin, sessions, repo := newAdmin(t)
	seedMember(t, repo, 1)
	authenticate(t, sessions)
	ctx := context.Background()

	if _, err := admin.AddStampFor(ctx, operatorID, 1); err != nil {
		t.Fatalf("add stamp failed: %v", err)
	}
	if _, err := admin.RedeemFor(ctx, operatorID, 1, false); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	entries, err := admin.HistoryFor(ctx, operatorID, 1, 10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
}
