package session

import (
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	pkgAuth "github.com/polkiloo/stampcard/internal/pkg/auth"
)

// Manager owns the per-operator authentication state machines. Sessions live
// in process memory only and do not survive restarts. Sessions of different
// operators are fully independent; a transition locks exactly one session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*operatorSession

	secretHash string
	hasher     pkgAuth.PasswordHasher
	ttl        time.Duration
	now        func() time.Time
}

type operatorSession struct {
	mu            sync.Mutex
	state         model.SessionState
	pendingTarget *int64
	selected      *int64
	expiresAt     time.Time
}

// NewManager hashes the shared operator secret once and returns a manager.
// ttl bounds the password prompt; ttl <= 0 keeps prompts open indefinitely.
func NewManager(secret string, hasher pkgAuth.PasswordHasher, ttl time.Duration) (*Manager, error) {
	hash, err := hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash operator secret: %w", err)
	}
	return &Manager{
		sessions:   make(map[int64]*operatorSession),
		secretHash: hash,
		hasher:     hasher,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (m *Manager) get(operatorID int64) *operatorSession {
	m.mu.RLock()
	s, ok := m.sessions[operatorID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[operatorID]; ok {
		return s
	}
	s = &operatorSession{state: model.SessionAnonymous}
	m.sessions[operatorID] = s
	return s
}

// expireLocked resets a stale password prompt. Caller holds the session lock.
func (m *Manager) expireLocked(s *operatorSession) bool {
	if s.state != model.SessionAwaitingPassword || s.expiresAt.IsZero() {
		return false
	}
	if m.now().Before(s.expiresAt) {
		return false
	}
	s.reset()
	return true
}

func (s *operatorSession) reset() {
	s.state = model.SessionAnonymous
	s.pendingTarget = nil
	s.selected = nil
	s.expiresAt = time.Time{}
}

// State returns a snapshot of the operator's session, lazily expiring a
// stale password prompt.
func (m *Manager) State(operatorID int64) model.OperatorSession {
	s := m.get(operatorID)
	s.mu.Lock()
	defer s.mu.Unlock()
	m.expireLocked(s)

	return model.OperatorSession{
		OperatorID:    operatorID,
		State:         s.state,
		PendingTarget: s.pendingTarget,
		Selected:      s.selected,
		ExpiresAt:     s.expiresAt,
	}
}

// BeginLogin moves the operator into AwaitingPassword, optionally carrying a
// pre-validated pending target from a targeting token. Returns true when a
// password prompt should be issued. An already-authenticated operator stays
// authenticated and gets no prompt.
func (m *Manager) BeginLogin(operatorID int64, pendingTarget *int64) bool {
	s := m.get(operatorID)
	s.mu.Lock()
	defer s.mu.Unlock()
	m.expireLocked(s)

	if s.state == model.SessionAuthenticated {
		if pendingTarget != nil {
			s.selected = pendingTarget
		}
		return false
	}

	s.state = model.SessionAwaitingPassword
	s.pendingTarget = pendingTarget
	s.selected = nil
	s.expiresAt = time.Time{}
	if m.ttl > 0 {
		s.expiresAt = m.now().Add(m.ttl)
	}
	return true
}

// SubmitPassword resolves a pending password prompt. On the correct secret
// the operator becomes Authenticated with the pending target selected; on a
// wrong one the session drops back to Anonymous and the target is discarded.
func (m *Manager) SubmitPassword(operatorID int64, attempt string) (*int64, error) {
	s := m.get(operatorID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.expireLocked(s) || s.state != model.SessionAwaitingPassword {
		return nil, domainErrors.ErrUnauthorized
	}

	if err := m.hasher.Compare(m.secretHash, attempt); err != nil {
		s.reset()
		return nil, domainErrors.ErrWrongPassword
	}

	target := s.pendingTarget
	s.state = model.SessionAuthenticated
	s.pendingTarget = nil
	s.selected = target
	s.expiresAt = time.Time{}
	return target, nil
}

// RequireAuthenticated gates admin actions. It never alters the session.
func (m *Manager) RequireAuthenticated(operatorID int64) error {
	s := m.get(operatorID)
	s.mu.Lock()
	defer s.mu.Unlock()
	m.expireLocked(s)

	if s.state != model.SessionAuthenticated {
		return domainErrors.ErrUnauthorized
	}
	return nil
}

// Select records the member the authenticated operator acts upon.
func (m *Manager) Select(operatorID, memberID int64) error {
	s := m.get(operatorID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != model.SessionAuthenticated {
		return domainErrors.ErrUnauthorized
	}
	s.selected = &memberID
	return nil
}

// ExpireStale sweeps all sessions, resets expired password prompts, and
// returns the affected operator ids so callers can notify them.
func (m *Manager) ExpireStale() []int64 {
	m.mu.RLock()
	ids := make([]int64, 0, len(m.sessions))
	sessions := make([]*operatorSession, 0, len(m.sessions))
	for id, s := range m.sessions {
		ids = append(ids, id)
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	var expired []int64
	for i, s := range sessions {
		s.mu.Lock()
		if m.expireLocked(s) {
			expired = append(expired, ids[i])
		}
		s.mu.Unlock()
	}
	return expired
}
