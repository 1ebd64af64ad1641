package battle

import (
	"sort"

	"github.com/classquest/classquest-backend/internal/model"
)

// computeRewards builds the per-student payout list for a finished battle.
// Defeat pays nothing. Victory pays the full xp/gp reward to every original
// participant regardless of remaining HP; in BVJ mode students who submitted
// at least one answer additionally receive the participant bonus on both
// currencies. Payouts are plain integers, sorted by student id for stable
// delivery order.
func computeRewards(victory bool, mode model.BattleMode, xpReward, gpReward, bonus int, participants []*participantState) []model.RewardPayout {
	if !victory {
		return nil
	}

	payouts := make([]model.RewardPayout, 0, len(participants))
	for _, p := range participants {
		payout := model.RewardPayout{
			StudentID: p.StudentID,
			XPDelta:   xpReward,
			GPDelta:   gpReward,
		}
		if mode == model.BattleModeBVJ && p.Answered {
			payout.XPDelta += bonus
			payout.GPDelta += bonus
		}
		payouts = append(payouts, payout)
	}

	sort.Slice(payouts, func(i, j int) bool {
		return payouts[i].StudentID < payouts[j].StudentID
	})
	return payouts
}
