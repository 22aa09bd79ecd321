package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

// LedgerUseCase exposes the stamp ledger mutation/read contract. All
// mutations are atomic per member and leave an audit trail in history.
type LedgerUseCase struct {
	members repository.MemberRepository
	history repository.HistoryRepository
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(members repository.MemberRepository, history repository.HistoryRepository) *LedgerUseCase {
	return &LedgerUseCase{members: members, history: history}
}

// UpsertMember registers a member on first contact and refreshes name fields
// on re-contact. Counters are never reset by an upsert.
func (u *LedgerUseCase) UpsertMember(ctx context.Context, id int64, displayName, username string) (*model.Member, error) {
	if id <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.members.Upsert(ctx, id, displayName, username)
}

// GetMember fetches a member by id.
func (u *LedgerUseCase) GetMember(ctx context.Context, id int64) (*model.Member, error) {
	return u.members.GetByID(ctx, id)
}

// AddStamp grants exactly one stamp and returns the new count.
func (u *LedgerUseCase) AddStamp(ctx context.Context, id int64) (int, error) {
	return u.members.AddStamp(ctx, id)
}

// Redeem resets the stamp counter unconditionally; eligibility is the
// operator's call, not the ledger's. With bank set, the reward is kept in
// the member's bank instead of being issued immediately.
func (u *LedgerUseCase) Redeem(ctx context.Context, id int64, bank bool) (*model.Member, error) {
	return u.members.Redeem(ctx, id, bank)
}

// ListMembers returns one id-ascending page of the roster.
func (u *LedgerUseCase) ListMembers(ctx context.Context, page, pageSize int) (*model.MemberPage, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.members.List(ctx, page, pageSize)
}

// History returns up to limit entries for a member, most recent first.
func (u *LedgerUseCase) History(ctx context.Context, id int64, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.history.ListByMember(ctx, id, limit)
}
