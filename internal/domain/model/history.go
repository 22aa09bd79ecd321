package model

import "time"

// HistoryEntry is one append-only record describing a balance mutation.
type HistoryEntry struct {
	ID          int64
	MemberID    int64
	Description string
	CreatedAt   time.Time
}
