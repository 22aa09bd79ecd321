package usecase

import (
	"context"
	"strings"

	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/pkg/token"
)

const (
	barSlots   = 10
	filledMark = "🟤"
	emptyMark  = "⚪"
)

// MemberUseCase is the member-facing read surface: own balance and the
// personal targeting token.
type MemberUseCase struct {
	ledger *LedgerUseCase
	tokens *token.Codec
}

// NewMemberUseCase constructs MemberUseCase.
func NewMemberUseCase(ledger *LedgerUseCase, tokens *token.Codec) *MemberUseCase {
	return &MemberUseCase{ledger: ledger, tokens: tokens}
}

// Register upserts the member on contact.
func (u *MemberUseCase) Register(ctx context.Context, id int64, displayName, username string) (*model.Member, error) {
	return u.ledger.UpsertMember(ctx, id, displayName, username)
}

// OwnStatus returns the member's balance with the ten-slot stamp bar. The
// bar saturates at ten filled slots; the counter itself is uncapped.
func (u *MemberUseCase) OwnStatus(ctx context.Context, id int64) (*model.StatusView, error) {
	member, err := u.ledger.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.StatusView{
		Stamps:     member.Stamps,
		RewardBank: member.RewardBank,
		Bar:        stampBar(member.Stamps),
	}, nil
}

// TargetingToken issues the member's personal token and the deep link the
// transport renders as a QR code. Deterministic; no storage lookup.
func (u *MemberUseCase) TargetingToken(id int64) (string, string) {
	return u.tokens.Issue(id), u.tokens.DeepLink(id)
}

func stampBar(stamps int) string {
	filled := stamps
	if filled > barSlots {
		filled = barSlots
	}
	return strings.Repeat(filledMark, filled) + strings.Repeat(emptyMark, barSlots-filled)
}
