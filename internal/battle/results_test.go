package battle

import (
	"testing"
	"time"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

func TestBuildResultsRanksByDamageThenFirstBlood(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// Students 1 and 3 tie on damage. Student 1 drew first blood even though
	// their last hit landed well after student 3's; the first hit decides.
	participants := []*participantState{
		{StudentID: 1, DamageDealt: 30, FirstDamageAt: base.Add(1 * time.Second)},
		{StudentID: 2, DamageDealt: 50, FirstDamageAt: base.Add(2 * time.Second)},
		{StudentID: 3, DamageDealt: 30, FirstDamageAt: base.Add(4 * time.Second)},
	}
	payouts := []model.RewardPayout{
		{StudentID: 1, XPDelta: 50, GPDelta: 20},
		{StudentID: 2, XPDelta: 50, GPDelta: 20},
		{StudentID: 3, XPDelta: 50, GPDelta: 20},
	}

	results := buildResults(uuid.New(), participants, payouts, base.Add(time.Minute))
	order := []int{results[0].StudentID, results[1].StudentID, results[2].StudentID}
	if order[0] != 2 || order[1] != 1 || order[2] != 3 {
		t.Fatalf("expected ranking [2 1 3], got %v", order)
	}
	if results[0].XPEarned != 50 || results[0].GPEarned != 20 {
		t.Fatalf("results must carry the payout amounts: %+v", results[0])
	}
	if results[1].FirstDamageAt == nil || !results[1].FirstDamageAt.Equal(base.Add(1*time.Second)) {
		t.Fatalf("first hit timestamp must survive into the result row: %+v", results[1])
	}
}

func TestBuildResultsDefeatCarriesZeroRewards(t *testing.T) {
	participants := []*participantState{
		{StudentID: 1, DamageDealt: 30, FirstDamageAt: time.Now()},
		{StudentID: 2},
	}
	results := buildResults(uuid.New(), participants, nil, time.Now())
	if results[0].XPEarned != 0 || results[0].GPEarned != 0 {
		t.Fatalf("no payouts means zero rewards in results: %+v", results[0])
	}
	if results[0].DamageDealt != 30 {
		t.Fatalf("damage is still recorded on defeat: %+v", results[0])
	}
	if results[1].FirstDamageAt != nil {
		t.Fatalf("participant who never landed a hit has no first-hit timestamp: %+v", results[1])
	}
}

func TestTotalsSumsAcrossResults(t *testing.T) {
	results := []model.BattleResult{
		{DamageDealt: 60, XPEarned: 50, GPEarned: 20},
		{DamageDealt: 40, XPEarned: 60, GPEarned: 30},
	}
	totals := Totals(results)
	if totals.TotalDamage != 100 || totals.TotalXP != 110 || totals.TotalGP != 50 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestRankOrdersPersistedRows(t *testing.T) {
	early := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)
	results := []model.BattleResult{
		{StudentID: 1, DamageDealt: 30, FirstDamageAt: &late},
		{StudentID: 2, DamageDealt: 30, FirstDamageAt: &early},
		{StudentID: 3, DamageDealt: 90, FirstDamageAt: &late},
		{StudentID: 4, DamageDealt: 30},
	}
	ranked := Rank(results)
	order := []int{ranked[0].StudentID, ranked[1].StudentID, ranked[2].StudentID, ranked[3].StudentID}
	if order[0] != 3 || order[1] != 2 || order[2] != 1 || order[3] != 4 {
		t.Fatalf("expected ranking [3 2 1 4], got %v", order)
	}
	if results[0].StudentID != 1 {
		t.Fatal("Rank must not mutate its input")
	}
}
