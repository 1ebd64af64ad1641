package battle

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// terminalRetention is how long a finished session stays resolvable by id
// after its boss index entry is released. Long enough for client retries of
// the final answer to get the soft already-finalized response, short enough
// that a long-lived server does not accumulate dead sessions.
const terminalRetention = 15 * time.Minute

// Store holds live sessions in process memory, keyed by session id, with a
// boss index that enforces the one-active-session-per-boss invariant.
// Released (terminal) sessions stay resident for a retention window so late
// retries resolve to a soft already-finalized response instead of a 404,
// then get swept.
type Store struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*Session
	byBoss    map[uuid.UUID]uuid.UUID
	expiry    map[uuid.UUID]time.Time
	retention time.Duration
	now       func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions:  make(map[uuid.UUID]*Session),
		byBoss:    make(map[uuid.UUID]uuid.UUID),
		expiry:    make(map[uuid.UUID]time.Time),
		retention: terminalRetention,
		now:       time.Now,
	}
}

// Put registers a new session. It fails with ErrSessionExists when the boss
// already has one.
func (st *Store) Put(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	if _, ok := st.byBoss[s.BossID()]; ok {
		return ErrSessionExists
	}
	st.sessions[s.ID()] = s
	st.byBoss[s.BossID()] = s.ID()
	return nil
}

// Get looks up a session by id.
func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if exp, ok := st.expiry[id]; ok && st.now().After(exp) {
		st.evictLocked(id)
	}
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetByBoss looks up the active session for a boss.
func (st *Store) GetByBoss(bossID uuid.UUID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id, ok := st.byBoss[bossID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st.sessions[id], nil
}

// Release drops the boss index entry for a terminal session and starts the
// retention clock. The session itself remains fetchable by id until swept.
func (st *Store) Release(bossID uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id, ok := st.byBoss[bossID]
	if !ok {
		return
	}
	delete(st.byBoss, bossID)
	st.expiry[id] = st.now().Add(st.retention)
}

// Evict removes a session entirely.
func (st *Store) Evict(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.evictLocked(id)
}

func (st *Store) evictLocked(id uuid.UUID) {
	s, ok := st.sessions[id]
	if !ok {
		return
	}
	delete(st.sessions, id)
	delete(st.expiry, id)
	if st.byBoss[s.BossID()] == id {
		delete(st.byBoss, s.BossID())
	}
}

func (st *Store) sweepLocked() {
	now := st.now()
	for id, exp := range st.expiry {
		if now.After(exp) {
			st.evictLocked(id)
		}
	}
}
