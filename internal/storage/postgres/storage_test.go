package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS members").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS history").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_history_member").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func TestInitSchemaCreatesTables(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectSchema(mock)
	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertMemberReturnsCounters(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO members").
		WithArgs(int64(42), "Alice", "alice").
		WillReturnRows(pgxmockv3.NewRows([]string{"stamps", "reward_bank"}).AddRow(3, 1))

	member, err := storage.Members().Upsert(context.Background(), 42, "Alice", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member.ID != 42 || member.DisplayName != "Alice" || member.Username != "alice" {
		t.Fatalf("unexpected member: %+v", member)
	}
	if member.Stamps != 3 || member.RewardBank != 1 {
		t.Fatalf("expected counters untouched by upsert, got %+v", member)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, username, display_name").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	if _, err := storage.Members().GetByID(context.Background(), 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddStampAppendsHistoryInOneTransaction(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE members SET stamps").
		WithArgs(int64(42)).
		WillReturnRows(pgxmockv3.NewRows([]string{"stamps"}).AddRow(4))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(42), "stamp added, 4/10").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	stamps, err := storage.Members().AddStamp(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamps != 4 {
		t.Fatalf("expected 4 stamps, got %d", stamps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddStampUnknownMemberRollsBack(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE members SET stamps").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	if _, err := storage.Members().AddStamp(context.Background(), 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("history must not be appended for unknown member: %v", err)
	}
}

func TestRedeemResetsStamps(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE members SET stamps = 0 WHERE").
		WithArgs(int64(42)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "username", "display_name", "stamps", "reward_bank"}).
			AddRow(int64(42), "alice", "Alice", 0, 2))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(42), "reward issued, stamps reset").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	member, err := storage.Members().Redeem(context.Background(), 42, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member.Stamps != 0 || member.RewardBank != 2 {
		t.Fatalf("unexpected member after redeem: %+v", member)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedeemBankIncrementsBank(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE members SET stamps = 0, reward_bank").
		WithArgs(int64(42)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "username", "display_name", "stamps", "reward_bank"}).
			AddRow(int64(42), "alice", "Alice", 0, 3))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(42), "reward banked").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	member, err := storage.Members().Redeem(context.Background(), 42, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member.Stamps != 0 || member.RewardBank != 3 {
		t.Fatalf("unexpected member after banked redeem: %+v", member)
	}
}

func TestRedeemUnknownMember(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE members SET stamps = 0 WHERE").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	if _, err := storage.Members().Redeem(context.Background(), 999, false); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMembersPagination(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT id, username, display_name").
		WithArgs(5, 5).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "username", "display_name", "stamps", "reward_bank"}).
			AddRow(int64(6), "f", "F", 0, 0).
			AddRow(int64(7), "g", "G", 1, 0))

	page, err := storage.Members().List(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", page.TotalPages)
	}
	if !page.HasPrev || page.HasNext {
		t.Fatalf("expected last page markers, got prev=%v next=%v", page.HasPrev, page.HasNext)
	}
	if len(page.Members) != 2 || page.Members[0].ID != 6 {
		t.Fatalf("unexpected page contents: %+v", page.Members)
	}
}

func TestListMembersEmptyStoreReportsOnePage(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, username, display_name").
		WithArgs(5, 0).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "username", "display_name", "stamps", "reward_bank"}))

	page, err := storage.Members().List(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 1 || page.HasPrev || page.HasNext {
		t.Fatalf("unexpected page markers: %+v", page)
	}
	if len(page.Members) != 0 {
		t.Fatalf("expected empty page, got %d members", len(page.Members))
	}
}

func TestHistoryMostRecentFirst(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(42)).
		WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT id, member_id, description").
		WithArgs(int64(42), 10).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "member_id", "description", "created_at"}).
			AddRow(int64(3), int64(42), "reward banked", now).
			AddRow(int64(2), int64(42), "stamp added, 1/10", now.Add(-time.Minute)))

	entries, err := storage.History().ListByMember(context.Background(), 42, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != 3 || entries[0].Description != "reward banked" {
		t.Fatalf("expected newest entry first, got %+v", entries[0])
	}
}

func TestHistoryUnknownMember(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(999)).
		WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(false))

	if _, err := storage.History().ListByMember(context.Background(), 999, 10); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHealthCheckPingsPool(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
