package battle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

func intp(i int) *int { return &i }

// noShuffle keeps the roster order, making BVJ turn order deterministic.
func noShuffle([]int) {}

// stepClock returns a clock that advances one second per call, so every
// damage timestamp in a test is distinct and ordered.
func stepClock() func() time.Time {
	t := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func testBoss(mode model.BattleMode, hp int) *model.Boss {
	return &model.Boss{
		ID:               uuid.New(),
		ClassroomID:      1,
		Name:             "Fractions review",
		BossName:         "Count Denominator",
		BossHP:           hp,
		BattleMode:       mode,
		XPReward:         50,
		GPReward:         20,
		ParticipantBonus: 10,
		Status:           model.BossStatusDraft,
	}
}

func testQuestion(damage, penalty int) model.BattleQuestion {
	return model.BattleQuestion{
		ID:           uuid.New(),
		QuestionType: model.QuestionTypeSingleChoice,
		Prompt:       fmt.Sprintf("deal %d damage", damage),
		Options:      []string{"right", "wrong", "also wrong"},
		CorrectIndex: intp(0),
		Damage:       damage,
		HPPenalty:    penalty,
	}
}

func newTestSession(t *testing.T, mode model.BattleMode, bossHP int, questions []model.BattleQuestion, roster []model.Participant) *Session {
	t.Helper()
	sess, err := NewSession(Config{
		Boss:      testBoss(mode, bossHP),
		Questions: questions,
		Roster:    roster,
		Now:       stepClock(),
		Shuffle:   noShuffle,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func correct() Answer { return Answer{Index: intp(0)} }
func wrong() Answer   { return Answer{Index: intp(1)} }

func TestNewSessionRequiresQuestions(t *testing.T) {
	_, err := NewSession(Config{
		Boss:   testBoss(model.BattleModeClassic, 100),
		Roster: []model.Participant{{StudentID: 1, CurrentHP: 100}},
	})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestNewSessionRequiresEligibleParticipants(t *testing.T) {
	_, err := NewSession(Config{
		Boss:      testBoss(model.BattleModeClassic, 100),
		Questions: []model.BattleQuestion{testQuestion(10, 0)},
		Roster:    []model.Participant{{StudentID: 1, CurrentHP: 0}},
	})
	if !errors.Is(err, ErrNoEligibleParticipants) {
		t.Fatalf("expected ErrNoEligibleParticipants, got %v", err)
	}
}

func TestClassicVictoryClampsLethalDamage(t *testing.T) {
	q1 := testQuestion(60, 0)
	q2 := testQuestion(60, 0)
	sess := newTestSession(t, model.BattleModeClassic, 100,
		[]model.BattleQuestion{q1, q2},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}, {StudentID: 2, CurrentHP: 100}},
	)

	out, err := sess.Submit(1, q1.ID, correct())
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if out.DamageDealt != 60 || out.BossHPRemaining != 40 || out.Terminal {
		t.Fatalf("unexpected first outcome: %+v", out)
	}

	out, err = sess.Submit(2, q2.ID, correct())
	if err != nil {
		t.Fatalf("lethal submit: %v", err)
	}
	if out.DamageDealt != 40 {
		t.Fatalf("expected lethal damage clamped to 40, got %d", out.DamageDealt)
	}
	if out.BossHPRemaining != 0 || !out.Terminal || !out.Victory {
		t.Fatalf("expected clamped victory, got %+v", out)
	}
	if out.Snapshot.State != StateVictory {
		t.Fatalf("expected VICTORY state, got %s", out.Snapshot.State)
	}

	total := 0
	for _, r := range out.Results {
		total += r.DamageDealt
	}
	if total != 100 {
		t.Fatalf("recorded damage must sum to boss HP, got %d", total)
	}
	if out.Results[0].StudentID != 1 || out.Results[0].DamageDealt != 60 {
		t.Fatalf("expected student 1 ranked first with 60 damage, got %+v", out.Results[0])
	}
	if len(out.Payouts) != 2 {
		t.Fatalf("expected payouts for both participants, got %d", len(out.Payouts))
	}
	for _, p := range out.Payouts {
		if p.XPDelta != 50 || p.GPDelta != 20 {
			t.Fatalf("classic payout must not include bonus: %+v", p)
		}
	}
}

func TestClassicTiedDamageRankedByFirstHit(t *testing.T) {
	q1 := testQuestion(20, 0)
	q2 := testQuestion(40, 0)
	q3 := testQuestion(20, 0)
	sess := newTestSession(t, model.BattleModeClassic, 80,
		[]model.BattleQuestion{q1, q2, q3},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}, {StudentID: 2, CurrentHP: 100}},
	)

	// Student 1 lands the opening hit, student 2 out-damages them mid-battle,
	// student 1 catches up with the lethal hit. Both finish on 40 damage; the
	// opening hit decides the tie, not the later one.
	if _, err := sess.Submit(1, q1.ID, correct()); err != nil {
		t.Fatalf("opening hit: %v", err)
	}
	if _, err := sess.Submit(2, q2.ID, correct()); err != nil {
		t.Fatalf("second hit: %v", err)
	}
	out, err := sess.Submit(1, q3.ID, correct())
	if err != nil {
		t.Fatalf("lethal hit: %v", err)
	}
	if !out.Terminal || !out.Victory {
		t.Fatalf("expected victory, got %+v", out)
	}
	if out.Results[0].StudentID != 1 || out.Results[1].StudentID != 2 {
		t.Fatalf("expected student 1 ranked first on the earlier first hit, got %+v", out.Results)
	}
	if out.Results[0].FirstDamageAt == nil || out.Results[1].FirstDamageAt == nil {
		t.Fatalf("both students landed hits, timestamps must be set: %+v", out.Results)
	}
	if !out.Results[0].FirstDamageAt.Before(*out.Results[1].FirstDamageAt) {
		t.Fatalf("winner's first hit must predate the runner-up's: %+v", out.Results)
	}
}

func TestRetriedSubmissionAfterVictoryIsRejectedOnce(t *testing.T) {
	q1 := testQuestion(100, 0)
	q2 := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeClassic, 100,
		[]model.BattleQuestion{q1, q2},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}},
	)

	out, err := sess.Submit(1, q1.ID, correct())
	if err != nil {
		t.Fatalf("lethal submit: %v", err)
	}
	if !out.Terminal || len(out.Payouts) != 1 {
		t.Fatalf("expected terminal outcome with payouts, got %+v", out)
	}

	// A duplicate delivery of the lethal answer must not pay again.
	retry, err := sess.Submit(1, q1.ID, correct())
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	if retry.Payouts != nil || retry.Results != nil {
		t.Fatalf("retry must carry no payouts or results: %+v", retry)
	}
	if retry.Snapshot.State != StateVictory {
		t.Fatalf("retry snapshot should show final state, got %s", retry.Snapshot.State)
	}

	_, err = sess.Submit(1, q2.ID, correct())
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized for any late submission, got %v", err)
	}
}

func TestClassicDefeatWhenAllParticipantsFall(t *testing.T) {
	q := testQuestion(10, 50)
	sess := newTestSession(t, model.BattleModeClassic, 100,
		[]model.BattleQuestion{q},
		[]model.Participant{{StudentID: 1, CurrentHP: 50}, {StudentID: 2, CurrentHP: 40}},
	)

	out, err := sess.Submit(1, q.ID, wrong())
	if err != nil {
		t.Fatalf("first wrong answer: %v", err)
	}
	if out.HPLost != 50 || out.Terminal {
		t.Fatalf("expected student 1 down but battle alive, got %+v", out)
	}

	out, err = sess.Submit(2, q.ID, wrong())
	if err != nil {
		t.Fatalf("second wrong answer: %v", err)
	}
	if out.HPLost != 40 {
		t.Fatalf("HP loss must clamp at remaining HP, got %d", out.HPLost)
	}
	if !out.Terminal || out.Victory {
		t.Fatalf("expected defeat, got %+v", out)
	}
	if out.Snapshot.State != StateDefeat {
		t.Fatalf("expected DEFEAT state, got %s", out.Snapshot.State)
	}
	if out.Payouts != nil {
		t.Fatalf("defeat must pay nothing, got %+v", out.Payouts)
	}
	if len(out.Results) != 2 {
		t.Fatalf("defeat still records results, got %d", len(out.Results))
	}
	for _, p := range out.Snapshot.Participants {
		if p.CurrentHP != 0 {
			t.Fatalf("all participants should be at 0 HP: %+v", p)
		}
	}
}

func TestClassicRepeatedQuestionRejected(t *testing.T) {
	q := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeClassic, 100,
		[]model.BattleQuestion{q},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}, {StudentID: 2, CurrentHP: 100}},
	)

	if _, err := sess.Submit(1, q.ID, correct()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := sess.Submit(1, q.ID, correct())
	if !errors.Is(err, ErrQuestionAlreadyAnswered) {
		t.Fatalf("expected ErrQuestionAlreadyAnswered, got %v", err)
	}
	if snap := sess.Snapshot(); snap.CurrentHP != 90 {
		t.Fatalf("rejected submit must not change boss HP, got %d", snap.CurrentHP)
	}

	// A different participant may still answer the same question.
	if _, err := sess.Submit(2, q.ID, correct()); err != nil {
		t.Fatalf("second participant on same question: %v", err)
	}
}

func TestSubmitRejectsIneligibleParticipants(t *testing.T) {
	q := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeClassic, 100,
		[]model.BattleQuestion{q},
		[]model.Participant{{StudentID: 1, CurrentHP: 0}, {StudentID: 2, CurrentHP: 100}},
	)

	if _, err := sess.Submit(1, q.ID, correct()); !errors.Is(err, ErrIneligibleParticipant) {
		t.Fatalf("expected ErrIneligibleParticipant for 0 HP, got %v", err)
	}
	if _, err := sess.Submit(99, q.ID, correct()); !errors.Is(err, ErrIneligibleParticipant) {
		t.Fatalf("expected ErrIneligibleParticipant for unknown student, got %v", err)
	}
	if _, err := sess.Submit(2, uuid.New(), correct()); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestBVJEnforcesTurnOrder(t *testing.T) {
	q1 := testQuestion(10, 0)
	q2 := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeBVJ, 100,
		[]model.BattleQuestion{q1, q2},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}, {StudentID: 2, CurrentHP: 100}},
	)

	snap := sess.Snapshot()
	if snap.CurrentTurn == nil || *snap.CurrentTurn != 1 {
		t.Fatalf("expected student 1 to open, got %v", snap.CurrentTurn)
	}

	if _, err := sess.Submit(2, q1.ID, correct()); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	out, err := sess.Submit(1, q1.ID, correct())
	if err != nil {
		t.Fatalf("turn holder submit: %v", err)
	}
	if out.Snapshot.CurrentTurn == nil || *out.Snapshot.CurrentTurn != 2 {
		t.Fatalf("expected turn to pass to student 2, got %v", out.Snapshot.CurrentTurn)
	}
}

func TestBVJZeroDamageRoundIsDefeat(t *testing.T) {
	q := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeBVJ, 100,
		[]model.BattleQuestion{q},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}},
	)

	out, err := sess.Submit(1, q.ID, wrong())
	if err != nil {
		t.Fatalf("wrong answer: %v", err)
	}
	if !out.Terminal || out.Victory {
		t.Fatalf("full round without damage must end in defeat, got %+v", out)
	}
	if out.Snapshot.CurrentTurn != nil {
		t.Fatalf("terminal snapshot must not advertise a turn, got %v", out.Snapshot.CurrentTurn)
	}
}

func TestBVJFullRoundWithoutDamageDefeatsParty(t *testing.T) {
	q := testQuestion(10, 0)
	roster := []model.Participant{
		{StudentID: 1, CurrentHP: 100},
		{StudentID: 2, CurrentHP: 100},
		{StudentID: 3, CurrentHP: 100},
	}
	sess := newTestSession(t, model.BattleModeBVJ, 100,
		[]model.BattleQuestion{q}, roster,
	)

	for _, id := range []int{1, 2} {
		out, err := sess.Submit(id, q.ID, wrong())
		if err != nil {
			t.Fatalf("student %d: %v", id, err)
		}
		if out.Terminal {
			t.Fatalf("battle must survive until the round completes, got %+v", out)
		}
	}

	// Third miss closes the round with zero total damage.
	out, err := sess.Submit(3, q.ID, wrong())
	if err != nil {
		t.Fatalf("student 3: %v", err)
	}
	if !out.Terminal || out.Victory {
		t.Fatalf("expected defeat after a damageless round, got %+v", out)
	}
	if out.Payouts != nil {
		t.Fatalf("defeat must pay nothing, got %+v", out.Payouts)
	}
	if len(out.Results) != 3 {
		t.Fatalf("defeat still records every participant, got %d", len(out.Results))
	}

	// A single hit anywhere in the round resets the condition.
	sess = newTestSession(t, model.BattleModeBVJ, 100,
		[]model.BattleQuestion{q}, roster,
	)
	if _, err := sess.Submit(1, q.ID, wrong()); err != nil {
		t.Fatalf("student 1: %v", err)
	}
	if _, err := sess.Submit(2, q.ID, correct()); err != nil {
		t.Fatalf("student 2: %v", err)
	}
	out, err = sess.Submit(3, q.ID, wrong())
	if err != nil {
		t.Fatalf("student 3: %v", err)
	}
	if out.Terminal {
		t.Fatalf("round with damage must keep the battle alive, got %+v", out)
	}
	if out.Snapshot.State != StateActive {
		t.Fatalf("expected ACTIVE after a scoring round, got %s", out.Snapshot.State)
	}
}

func TestBVJVictoryPaysParticipationBonus(t *testing.T) {
	q1 := testQuestion(10, 0)
	q2 := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeBVJ, 20,
		[]model.BattleQuestion{q1, q2},
		[]model.Participant{
			{StudentID: 1, CurrentHP: 100},
			{StudentID: 2, CurrentHP: 100},
			{StudentID: 3, CurrentHP: 100},
		},
	)

	if _, err := sess.Submit(1, q1.ID, correct()); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	out, err := sess.Submit(2, q2.ID, correct())
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if !out.Terminal || !out.Victory {
		t.Fatalf("expected victory, got %+v", out)
	}

	byStudent := make(map[int]model.RewardPayout, len(out.Payouts))
	for _, p := range out.Payouts {
		byStudent[p.StudentID] = p
	}
	if len(byStudent) != 3 {
		t.Fatalf("every participant is paid on victory, got %d payouts", len(byStudent))
	}
	for _, id := range []int{1, 2} {
		if p := byStudent[id]; p.XPDelta != 60 || p.GPDelta != 30 {
			t.Fatalf("answering student %d should earn the bonus: %+v", id, p)
		}
	}
	if p := byStudent[3]; p.XPDelta != 50 || p.GPDelta != 20 {
		t.Fatalf("silent student earns base reward only: %+v", p)
	}
}

func TestBVJRepeatedQuestionAllowedAcrossRounds(t *testing.T) {
	q := testQuestion(10, 0)
	sess := newTestSession(t, model.BattleModeBVJ, 100,
		[]model.BattleQuestion{q},
		[]model.Participant{{StudentID: 1, CurrentHP: 100}, {StudentID: 2, CurrentHP: 100}},
	)

	if _, err := sess.Submit(1, q.ID, correct()); err != nil {
		t.Fatalf("round 1, student 1: %v", err)
	}
	if _, err := sess.Submit(2, q.ID, correct()); err != nil {
		t.Fatalf("round 1, student 2: %v", err)
	}
	// New round, same question again for the next turn holder.
	snap := sess.Snapshot()
	if snap.CurrentTurn == nil {
		t.Fatal("expected an active turn")
	}
	if _, err := sess.Submit(*snap.CurrentTurn, q.ID, correct()); err != nil {
		t.Fatalf("round 2 repeat: %v", err)
	}
}
