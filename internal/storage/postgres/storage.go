package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the storage relies on; narrowed so tests
// can substitute a mock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type memberRepository struct {
	storage *Storage
}

type historyRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Members() repository.MemberRepository {
	return &memberRepository{storage: s}
}

func (s *Storage) History() repository.HistoryRepository {
	return &historyRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS members (
            id BIGINT PRIMARY KEY,
            username TEXT,
            display_name TEXT,
            stamps INTEGER NOT NULL DEFAULT 0 CHECK (stamps >= 0),
            reward_bank INTEGER NOT NULL DEFAULT 0 CHECK (reward_bank >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS history (
            id BIGSERIAL PRIMARY KEY,
            member_id BIGINT NOT NULL REFERENCES members(id),
            description TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_history_member ON history(member_id, id DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- MemberRepository implementation ---

func (r *memberRepository) Upsert(ctx context.Context, id int64, displayName, username string) (*model.Member, error) {
	const query = `INSERT INTO members (id, display_name, username) VALUES ($1, $2, $3)
                   ON CONFLICT (id) DO UPDATE SET display_name=EXCLUDED.display_name, username=EXCLUDED.username
                   RETURNING stamps, reward_bank`
	m := model.Member{ID: id, DisplayName: displayName, Username: username}
	if err := r.storage.pool.QueryRow(ctx, query, id, displayName, username).Scan(&m.Stamps, &m.RewardBank); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	const query = `SELECT id, username, display_name, stamps, reward_bank FROM members WHERE id=$1`
	var m model.Member
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Username, &m.DisplayName, &m.Stamps, &m.RewardBank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// AddStamp increments the stamp counter and appends the matching history
// entry in one transaction, so the row lock serializes concurrent mutations
// of the same member and the entry never lands without its counter update.
func (r *memberRepository) AddStamp(ctx context.Context, id int64) (int, error) {
	var stamps int
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE members SET stamps = stamps + 1 WHERE id=$1 RETURNING stamps`
		if err := tx.QueryRow(ctx, update, id).Scan(&stamps); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		return r.storage.appendHistoryTx(ctx, tx, id, fmt.Sprintf("stamp added, %d/10", stamps))
	})
	if err != nil {
		return 0, err
	}
	return stamps, nil
}

func (r *memberRepository) Redeem(ctx context.Context, id int64, bank bool) (*model.Member, error) {
	var m model.Member
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		update := `UPDATE members SET stamps = 0 WHERE id=$1
                   RETURNING id, username, display_name, stamps, reward_bank`
		description := "reward issued, stamps reset"
		if bank {
			update = `UPDATE members SET stamps = 0, reward_bank = reward_bank + 1 WHERE id=$1
                      RETURNING id, username, display_name, stamps, reward_bank`
			description = "reward banked"
		}
		err := tx.QueryRow(ctx, update, id).Scan(&m.ID, &m.Username, &m.DisplayName, &m.Stamps, &m.RewardBank)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		return r.storage.appendHistoryTx(ctx, tx, id, description)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) List(ctx context.Context, page, pageSize int) (*model.MemberPage, error) {
	const countQuery = `SELECT COUNT(*) FROM members`
	var total int
	if err := r.storage.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	const query = `SELECT id, username, display_name, stamps, reward_bank
                   FROM members ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, pageSize, page*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Username, &m.DisplayName, &m.Stamps, &m.RewardBank); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.MemberPage{
		Members:    members,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 0,
		HasNext:    page < totalPages-1,
	}, nil
}

// --- HistoryRepository implementation ---

func (s *Storage) appendHistoryTx(ctx context.Context, tx pgx.Tx, memberID int64, description string) error {
	const insert = `INSERT INTO history (member_id, description) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insert, memberID, description); err != nil {
		return err
	}
	return nil
}

func (r *historyRepository) ListByMember(ctx context.Context, memberID int64, limit int) ([]model.HistoryEntry, error) {
	const existsQuery = `SELECT EXISTS(SELECT 1 FROM members WHERE id=$1)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, existsQuery, memberID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainErrors.ErrNotFound
	}

	const query = `SELECT id, member_id, description, created_at
                   FROM history WHERE member_id=$1 ORDER BY id DESC LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, memberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
