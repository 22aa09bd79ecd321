package usecase

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/session"
)

// AdminUseCase authorizes and dispatches operator console actions. Every
// operation gates on the operator's session first; a rejected action touches
// neither the ledger nor the session.
type AdminUseCase struct {
	sessions *session.Manager
	ledger   *LedgerUseCase
}

// NewAdminUseCase constructs AdminUseCase.
func NewAdminUseCase(sessions *session.Manager, ledger *LedgerUseCase) *AdminUseCase {
	return &AdminUseCase{sessions: sessions, ledger: ledger}
}

// AddStampFor grants one stamp to the target and refreshes the panel view.
func (u *AdminUseCase) AddStampFor(ctx context.Context, operatorID, memberID int64) (*model.Member, error) {
	if err := u.sessions.RequireAuthenticated(operatorID); err != nil {
		return nil, err
	}
	if _, err := u.ledger.AddStamp(ctx, memberID); err != nil {
		return nil, err
	}
	member, err := u.ledger.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	_ = u.sessions.Select(operatorID, memberID)
	return member, nil
}

// RedeemFor consumes the target's stamps; with bank set the reward is
// banked instead of issued.
func (u *AdminUseCase) RedeemFor(ctx context.Context, operatorID, memberID int64, bank bool) (*model.Member, error) {
	if err := u.sessions.RequireAuthenticated(operatorID); err != nil {
		return nil, err
	}
	member, err := u.ledger.Redeem(ctx, memberID, bank)
	if err != nil {
		return nil, err
	}
	_ = u.sessions.Select(operatorID, memberID)
	return member, nil
}

// HistoryFor returns the target's recent ledger entries, newest first.
func (u *AdminUseCase) HistoryFor(ctx context.Context, operatorID, memberID int64, limit int) ([]model.HistoryEntry, error) {
	if err := u.sessions.RequireAuthenticated(operatorID); err != nil {
		return nil, err
	}
	entries, err := u.ledger.History(ctx, memberID, limit)
	if err != nil {
		return nil, err
	}
	_ = u.sessions.Select(operatorID, memberID)
	return entries, nil
}

// ListPage returns one roster page. The operator's selection is untouched.
func (u *AdminUseCase) ListPage(ctx context.Context, operatorID int64, page, pageSize int) (*model.MemberPage, error) {
	if err := u.sessions.RequireAuthenticated(operatorID); err != nil {
		return nil, err
	}
	return u.ledger.ListMembers(ctx, page, pageSize)
}

// SelectMember opens the target's panel; an unknown member leaves the
// previous selection in place.
func (u *AdminUseCase) SelectMember(ctx context.Context, operatorID, memberID int64) (*model.Member, error) {
	if err := u.sessions.RequireAuthenticated(operatorID); err != nil {
		return nil, err
	}
	member, err := u.ledger.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	_ = u.sessions.Select(operatorID, memberID)
	return member, nil
}
