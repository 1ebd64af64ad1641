package battle

import (
	"sync"
	"time"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

// State is the battle session's position in the ACTIVE -> VICTORY | DEFEAT
// state machine. Terminal states are absorbing.
type State string

const (
	StateActive  State = "ACTIVE"
	StateVictory State = "VICTORY"
	StateDefeat  State = "DEFEAT"
)

// participantState tracks one student's runtime bookkeeping. FirstDamageAt
// is set once, on the first hit that lands, and is the ranking tie-breaker.
type participantState struct {
	StudentID     int
	CurrentHP     int
	DamageDealt   int
	Answered      bool
	FirstDamageAt time.Time
	answeredQs    map[uuid.UUID]bool
}

// ParticipantSnapshot is the client-facing view of a participant.
type ParticipantSnapshot struct {
	StudentID   int  `json:"student_id"`
	CurrentHP   int  `json:"current_hp"`
	DamageDealt int  `json:"damage_dealt"`
	Answered    bool `json:"answered"`
}

// Snapshot is the authoritative post-mutation view returned from every
// session endpoint; clients render it instead of polling for state changes.
type Snapshot struct {
	SessionID      uuid.UUID             `json:"session_id"`
	BossID         uuid.UUID             `json:"boss_id"`
	Mode           model.BattleMode      `json:"mode"`
	State          State                 `json:"state"`
	BossHP         int                   `json:"boss_hp"`
	CurrentHP      int                   `json:"current_hp"`
	CurrentTurn    *int                  `json:"current_turn,omitempty"`
	ExhaustedRound int                   `json:"exhausted_round"`
	Participants   []ParticipantSnapshot `json:"participants"`
}

// Outcome reports what one processed submission did to the session. Payouts
// and Results are populated only on the call that drove the session into a
// terminal state; every retry after that fails with ErrAlreadyFinalized.
type Outcome struct {
	Correct         bool
	DamageDealt     int
	HPLost          int
	BossHPRemaining int
	Terminal        bool
	Victory         bool
	Payouts         []model.RewardPayout
	Results         []model.BattleResult
	Snapshot        Snapshot
}

// Config carries everything a session needs at start time. Now and Shuffle
// default to the wall clock and a uniform shuffle; tests override them.
type Config struct {
	SessionID uuid.UUID
	Boss      *model.Boss
	Questions []model.BattleQuestion
	Roster    []model.Participant
	Now       func() time.Time
	Shuffle   func([]int)
}

// Session is the stateful orchestrator of one battle. All mutation happens
// under a single mutex, so concurrent submissions are applied one at a time:
// two clients can never both observe the same boss HP and race a decrement.
type Session struct {
	id     uuid.UUID
	bossID uuid.UUID
	mode   model.BattleMode

	xpReward         int
	gpReward         int
	participantBonus int

	mu             sync.Mutex
	bossHP         int
	currentHP      int
	participants   map[int]*participantState
	order          []int
	questions      map[uuid.UUID]*model.BattleQuestion
	turns          *turnQueue
	currentTurn    int
	roundDamage    int
	defeatPending  bool
	state          State
	finalized      bool
	now            func() time.Time
}

// NewSession validates the start conditions and builds an ACTIVE session.
// It fails with ErrNoQuestions for an empty question set and with
// ErrNoEligibleParticipants when no supplied student has HP above zero.
func NewSession(cfg Config) (*Session, error) {
	if len(cfg.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		id:               cfg.SessionID,
		bossID:           cfg.Boss.ID,
		mode:             cfg.Boss.BattleMode,
		xpReward:         cfg.Boss.XPReward,
		gpReward:         cfg.Boss.GPReward,
		participantBonus: cfg.Boss.ParticipantBonus,
		bossHP:           cfg.Boss.BossHP,
		currentHP:        cfg.Boss.BossHP,
		participants:     make(map[int]*participantState, len(cfg.Roster)),
		questions:        make(map[uuid.UUID]*model.BattleQuestion, len(cfg.Questions)),
		state:            StateActive,
		now:              now,
	}
	if s.id == uuid.Nil {
		s.id = uuid.New()
	}

	var eligible []int
	for _, p := range cfg.Roster {
		if _, ok := s.participants[p.StudentID]; ok {
			continue
		}
		s.participants[p.StudentID] = &participantState{
			StudentID:  p.StudentID,
			CurrentHP:  p.CurrentHP,
			answeredQs: make(map[uuid.UUID]bool),
		}
		s.order = append(s.order, p.StudentID)
		if p.CurrentHP > 0 {
			eligible = append(eligible, p.StudentID)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleParticipants
	}

	for i := range cfg.Questions {
		q := cfg.Questions[i]
		s.questions[q.ID] = &q
	}

	if s.mode == model.BattleModeBVJ {
		s.turns = newTurnQueue(eligible, cfg.Shuffle)
		s.currentTurn, _, _ = s.turns.next(eligible, 0)
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// BossID returns the boss this session fights.
func (s *Session) BossID() uuid.UUID { return s.bossID }

// Submit grades one answer and applies its effects. The whole read-modify-
// write, including the BVJ turn check, turn advance, terminal evaluation and
// the finalized flag, runs inside one critical section, so a retried lethal
// answer can never pay rewards twice. Rejected submissions leave the session
// unchanged.
func (s *Session) Submit(studentID int, questionID uuid.UUID, answer Answer) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return Outcome{Snapshot: s.snapshotLocked()}, ErrAlreadyFinalized
	}

	p, ok := s.participants[studentID]
	if !ok || p.CurrentHP <= 0 {
		return Outcome{Snapshot: s.snapshotLocked()}, ErrIneligibleParticipant
	}
	if s.mode == model.BattleModeBVJ && studentID != s.currentTurn {
		return Outcome{Snapshot: s.snapshotLocked()}, ErrNotYourTurn
	}

	q, ok := s.questions[questionID]
	if !ok {
		return Outcome{Snapshot: s.snapshotLocked()}, ErrQuestionNotFound
	}
	if s.mode == model.BattleModeClassic && p.answeredQs[questionID] {
		return Outcome{Snapshot: s.snapshotLocked()}, ErrQuestionAlreadyAnswered
	}

	res := Resolve(q, answer, p.CurrentHP)

	// Lethal damage is clamped so boss HP never goes below zero and the
	// recorded damage sums to exactly bossHP on victory.
	applied := res.DamageToBoss
	if applied > s.currentHP {
		applied = s.currentHP
	}
	s.currentHP -= applied
	p.CurrentHP -= res.HPLost
	p.DamageDealt += applied
	if applied > 0 && p.FirstDamageAt.IsZero() {
		p.FirstDamageAt = s.now()
	}
	p.Answered = true
	p.answeredQs[questionID] = true
	s.roundDamage += applied

	if s.mode == model.BattleModeBVJ {
		s.advanceTurnLocked()
	}

	out := Outcome{
		Correct:         res.Correct,
		DamageDealt:     applied,
		HPLost:          res.HPLost,
		BossHPRemaining: s.currentHP,
	}

	// Victory always wins the race against a simultaneous defeat condition.
	switch {
	case s.currentHP == 0:
		s.terminalizeLocked(StateVictory, &out)
	case s.defeatConditionLocked():
		s.terminalizeLocked(StateDefeat, &out)
	}

	out.Snapshot = s.snapshotLocked()
	return out, nil
}

// advanceTurnLocked moves BVJ play to the next student. A full pass over the
// roster with zero damage dealt, or an empty eligible pool on reshuffle,
// arms the defeat condition.
func (s *Session) advanceTurnLocked() {
	eligible := s.eligibleLocked()
	next, roundDone, ok := s.turns.next(eligible, s.currentTurn)
	if roundDone {
		if s.roundDamage == 0 {
			s.defeatPending = true
		}
		s.roundDamage = 0
	}
	if !ok {
		s.defeatPending = true
		s.currentTurn = 0
		return
	}
	s.currentTurn = next
}

func (s *Session) defeatConditionLocked() bool {
	switch s.mode {
	case model.BattleModeBVJ:
		return s.defeatPending
	default:
		for _, p := range s.participants {
			if p.CurrentHP > 0 {
				return false
			}
		}
		return true
	}
}

// terminalizeLocked freezes the session and runs reward distribution and
// result aggregation exactly once.
func (s *Session) terminalizeLocked(state State, out *Outcome) {
	s.state = state
	s.finalized = true
	s.currentTurn = 0

	out.Terminal = true
	out.Victory = state == StateVictory

	ordered := s.orderedParticipantsLocked()
	out.Payouts = computeRewards(out.Victory, s.mode, s.xpReward, s.gpReward, s.participantBonus, ordered)
	out.Results = buildResults(s.bossID, ordered, out.Payouts, s.now())
}

func (s *Session) eligibleLocked() []int {
	eligible := make([]int, 0, len(s.order))
	for _, id := range s.order {
		if s.participants[id].CurrentHP > 0 {
			eligible = append(eligible, id)
		}
	}
	return eligible
}

func (s *Session) orderedParticipantsLocked() []*participantState {
	ordered := make([]*participantState, 0, len(s.order))
	for _, id := range s.order {
		ordered = append(ordered, s.participants[id])
	}
	return ordered
}

// Snapshot returns the current client-facing view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		BossID:    s.bossID,
		Mode:      s.mode,
		State:     s.state,
		BossHP:    s.bossHP,
		CurrentHP: s.currentHP,
	}
	if s.turns != nil {
		snap.ExhaustedRound = s.turns.exhaustedRounds()
	}
	if s.mode == model.BattleModeBVJ && s.state == StateActive {
		turn := s.currentTurn
		snap.CurrentTurn = &turn
	}
	for _, id := range s.order {
		p := s.participants[id]
		snap.Participants = append(snap.Participants, ParticipantSnapshot{
			StudentID:   p.StudentID,
			CurrentHP:   p.CurrentHP,
			DamageDealt: p.DamageDealt,
			Answered:    p.Answered,
		})
	}
	return snap
}
