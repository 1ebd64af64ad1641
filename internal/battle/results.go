package battle

import (
	"sort"
	"time"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

// buildResults assembles the immutable per-participant result rows from
// cumulative damage and the payout list. Rows come back ranked by damage
// descending, ties broken by whoever drew first blood — the earliest first
// hit, not the latest one.
func buildResults(bossID uuid.UUID, participants []*participantState, payouts []model.RewardPayout, at time.Time) []model.BattleResult {
	payoutByStudent := make(map[int]model.RewardPayout, len(payouts))
	for _, p := range payouts {
		payoutByStudent[p.StudentID] = p
	}

	results := make([]model.BattleResult, 0, len(participants))
	for _, p := range participants {
		payout := payoutByStudent[p.StudentID]
		var firstDamage *time.Time
		if !p.FirstDamageAt.IsZero() {
			t := p.FirstDamageAt
			firstDamage = &t
		}
		results = append(results, model.BattleResult{
			BossID:        bossID,
			StudentID:     p.StudentID,
			DamageDealt:   p.DamageDealt,
			XPEarned:      payout.XPDelta,
			GPEarned:      payout.GPDelta,
			FirstDamageAt: firstDamage,
			CreatedAt:     at,
		})
	}
	return Rank(results)
}

// Totals sums damage and rewards across result rows for the teacher view.
func Totals(results []model.BattleResult) model.BattleTotals {
	var t model.BattleTotals
	for _, r := range results {
		t.TotalDamage += r.DamageDealt
		t.TotalXP += r.XPEarned
		t.TotalGP += r.GPEarned
	}
	return t
}

// Rank orders result rows by damage descending, ties broken by the earliest
// first hit (rows with no recorded hit sort last), then student id. The same
// ordering applies to fresh engine output and rows re-read from storage.
func Rank(results []model.BattleResult) []model.BattleResult {
	ranked := make([]model.BattleResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DamageDealt != ranked[j].DamageDealt {
			return ranked[i].DamageDealt > ranked[j].DamageDealt
		}
		ti, tj := ranked[i].FirstDamageAt, ranked[j].FirstDamageAt
		switch {
		case ti != nil && tj != nil && !ti.Equal(*tj):
			return ti.Before(*tj)
		case ti != nil && tj == nil:
			return true
		case ti == nil && tj != nil:
			return false
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})
	return ranked
}
