package repository

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// MemberRepository describes persistence operations for members. Mutating
// operations are atomic per member id and append their own history entries
// before returning.
type MemberRepository interface {
	Upsert(ctx context.Context, id int64, displayName, username string) (*model.Member, error)
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	AddStamp(ctx context.Context, id int64) (int, error)
	Redeem(ctx context.Context, id int64, bank bool) (*model.Member, error)
	List(ctx context.Context, page, pageSize int) (*model.MemberPage, error)
}
