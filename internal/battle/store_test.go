package battle

import (
	"errors"
	"testing"
	"time"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

func storeSession(t *testing.T) *Session {
	t.Helper()
	q := testQuestion(10, 0)
	return newTestSession(t, model.BattleModeClassic, 100,
		[]model.BattleQuestion{q},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}},
	)
}

func TestStoreEnforcesOneSessionPerBoss(t *testing.T) {
	st := NewStore()
	sess := storeSession(t)

	if err := st.Put(sess); err != nil {
		t.Fatalf("put: %v", err)
	}
	other, err := NewSession(Config{
		Boss:      &model.Boss{ID: sess.BossID(), BattleMode: model.BattleModeClassic, BossHP: 50},
		Questions: []model.BattleQuestion{testQuestion(10, 0)},
		Roster:    []model.Participant{{StudentID: 2, CurrentHP: 100}},
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := st.Put(other); !errors.Is(err, ErrSessionExists) {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
}

func TestStoreLookups(t *testing.T) {
	st := NewStore()
	sess := storeSession(t)
	if err := st.Put(sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := st.Get(sess.ID())
	if err != nil || got != sess {
		t.Fatalf("get by id: %v", err)
	}
	got, err = st.GetByBoss(sess.BossID())
	if err != nil || got != sess {
		t.Fatalf("get by boss: %v", err)
	}
	if _, err := st.Get(uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreReleaseKeepsSessionFetchable(t *testing.T) {
	st := NewStore()
	sess := storeSession(t)
	if err := st.Put(sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	st.Release(sess.BossID())

	// Late retries still resolve by session id.
	if _, err := st.Get(sess.ID()); err != nil {
		t.Fatalf("released session must stay fetchable: %v", err)
	}
	if _, err := st.GetByBoss(sess.BossID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("boss index must be cleared, got %v", err)
	}

	// And the boss can host a fresh session.
	next, err := NewSession(Config{
		Boss:      &model.Boss{ID: sess.BossID(), BattleMode: model.BattleModeClassic, BossHP: 50},
		Questions: []model.BattleQuestion{testQuestion(10, 0)},
		Roster:    []model.Participant{{StudentID: 1, CurrentHP: 100}},
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := st.Put(next); err != nil {
		t.Fatalf("put after release: %v", err)
	}
}

func TestStoreSweepsReleasedSessionsAfterRetention(t *testing.T) {
	st := NewStore()
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return clock }
	st.retention = time.Minute

	sess := storeSession(t)
	if err := st.Put(sess); err != nil {
		t.Fatalf("put: %v", err)
	}
	st.Release(sess.BossID())

	// Inside the retention window late retries still resolve.
	clock = clock.Add(30 * time.Second)
	if _, err := st.Get(sess.ID()); err != nil {
		t.Fatalf("session must survive the retention window: %v", err)
	}

	// Past the window the session is gone for good.
	clock = clock.Add(2 * time.Minute)
	if _, err := st.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after retention, got %v", err)
	}

	// Puts sweep expired leftovers that were never read again.
	stale := storeSession(t)
	if err := st.Put(stale); err != nil {
		t.Fatalf("put stale: %v", err)
	}
	st.Release(stale.BossID())
	clock = clock.Add(2 * time.Minute)
	fresh := storeSession(t)
	if err := st.Put(fresh); err != nil {
		t.Fatalf("put fresh: %v", err)
	}
	if _, err := st.Get(stale.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session swept on put, got %v", err)
	}
}

func TestStoreEvictRemovesEverything(t *testing.T) {
	st := NewStore()
	sess := storeSession(t)
	if err := st.Put(sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	st.Evict(sess.ID())
	if _, err := st.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after evict, got %v", err)
	}
	if _, err := st.GetByBoss(sess.BossID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected boss index cleared after evict, got %v", err)
	}
}
