package repository

import (
	"context"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// HistoryRepository reads the append-only action history.
type HistoryRepository interface {
	ListByMember(ctx context.Context, memberID int64, limit int) ([]model.HistoryEntry, error)
}
