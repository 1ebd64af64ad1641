package battle

import (
	"github.com/classquest/classquest-backend/internal/model"
)

// Resolution is the outcome of grading one submission.
type Resolution struct {
	Correct      bool `json:"correct"`
	DamageToBoss int  `json:"damage_to_boss"`
	HPLost       int  `json:"hp_lost"`
}

// Resolve grades an answer against a question. Correct answers deal the
// question's full damage and cost the participant nothing; wrong answers
// deal no damage and cost min(penalty, currentHP) so HP never goes negative.
// Eligibility (HP > 0) is enforced by the session before resolution.
func Resolve(q *model.BattleQuestion, a Answer, participantHP int) Resolution {
	if Corrector(q)(a) {
		return Resolution{Correct: true, DamageToBoss: q.Damage}
	}
	loss := q.HPPenalty
	if loss > participantHP {
		loss = participantHP
	}
	return Resolution{HPLost: loss}
}
