package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
)

// MemberRepositoryStub keeps members and their history in memory, mirroring
// the per-member atomicity of the real store with one coarse lock.
type MemberRepositoryStub struct {
	mu      sync.Mutex
	Members map[int64]*model.Member
	Entries []model.HistoryEntry
	nextID  int64
	Err     error
}

// NewMemberRepositoryStub constructs a stub with initialized maps.
func NewMemberRepositoryStub() *MemberRepositoryStub {
	return &MemberRepositoryStub{Members: make(map[int64]*model.Member), nextID: 1}
}

func (s *MemberRepositoryStub) appendHistory(memberID int64, description string) {
	s.Entries = append(s.Entries, model.HistoryEntry{
		ID:          s.nextID,
		MemberID:    memberID,
		Description: description,
		CreatedAt:   time.Now(),
	})
	s.nextID++
}

// Upsert inserts or refreshes name fields, never touching counters.
func (s *MemberRepositoryStub) Upsert(ctx context.Context, id int64, displayName, username string) (*model.Member, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.Members[id]; ok {
		m.DisplayName = displayName
		m.Username = username
		copied := *m
		return &copied, nil
	}
	m := &model.Member{ID: id, DisplayName: displayName, Username: username}
	s.Members[id] = m
	copied := *m
	return &copied, nil
}

// GetByID fetches a member or returns not found.
func (s *MemberRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.Members[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

// AddStamp increments the counter and records a history entry.
func (s *MemberRepositoryStub) AddStamp(ctx context.Context, id int64) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.Members[id]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	m.Stamps++
	s.appendHistory(id, "stamp added")
	return m.Stamps, nil
}

// Redeem resets stamps, optionally banking the reward, and records history.
func (s *MemberRepositoryStub) Redeem(ctx context.Context, id int64, bank bool) (*model.Member, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.Members[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	m.Stamps = 0
	description := "reward issued, stamps reset"
	if bank {
		m.RewardBank++
		description = "reward banked"
	}
	s.appendHistory(id, description)
	copied := *m
	return &copied, nil
}

// List returns one id-ascending page with pagination markers.
func (s *MemberRepositoryStub) List(ctx context.Context, page, pageSize int) (*model.MemberPage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.Members))
	for id := range s.Members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	totalPages := (len(ids) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := page * pageSize
	end := start + pageSize
	var members []model.Member
	for i := start; i < end && i < len(ids); i++ {
		members = append(members, *s.Members[ids[i]])
	}

	return &model.MemberPage{
		Members:    members,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 0,
		HasNext:    page < totalPages-1,
	}, nil
}

// ListByMember returns recorded entries newest first, capped by limit.
func (s *MemberRepositoryStub) ListByMember(ctx context.Context, memberID int64, limit int) ([]model.HistoryEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Members[memberID]; !ok {
		return nil, domainErrors.ErrNotFound
	}

	var result []model.HistoryEntry
	for i := len(s.Entries) - 1; i >= 0 && len(result) < limit; i-- {
		if s.Entries[i].MemberID == memberID {
			result = append(result, s.Entries[i])
		}
	}
	return result, nil
}

// HistoryCount reports recorded entries for a member.
func (s *MemberRepositoryStub) HistoryCount(memberID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.Entries {
		if e.MemberID == memberID {
			n++
		}
	}
	return n
}

// HistoryRepositoryStub allows tests to customize history reads.
type HistoryRepositoryStub struct {
	ListFn func(context.Context, int64, int) ([]model.HistoryEntry, error)
	Items  []model.HistoryEntry
	Err    error
}

// ListByMember delegates to the override or returns configured items.
func (s *HistoryRepositoryStub) ListByMember(ctx context.Context, memberID int64, limit int) ([]model.HistoryEntry, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, memberID, limit)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > len(s.Items) {
		limit = len(s.Items)
	}
	return s.Items[:limit], nil
}
