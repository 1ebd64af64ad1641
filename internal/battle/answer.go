package battle

import (
	"github.com/classquest/classquest-backend/internal/model"
)

// Answer is the wire shape of a submitted answer. Exactly one field is used
// depending on the question type: Index for TRUE_FALSE/SINGLE_CHOICE, Indices
// for MULTIPLE_CHOICE, Matches (left -> right) for MATCHING.
type Answer struct {
	Index   *int              `json:"index,omitempty"`
	Indices []int             `json:"indices,omitempty"`
	Matches map[string]string `json:"matches,omitempty"`
}

// Corrector returns the canonical correctness predicate for a question.
// The resolver applies the predicate identically for every type, so nothing
// downstream ever branches on the storage representation.
func Corrector(q *model.BattleQuestion) func(Answer) bool {
	switch q.QuestionType {
	case model.QuestionTypeTrueFalse, model.QuestionTypeSingleChoice:
		correct := q.CorrectIndex
		return func(a Answer) bool {
			return correct != nil && a.Index != nil && *a.Index == *correct
		}
	case model.QuestionTypeMultipleChoice:
		want := make(map[int]bool, len(q.CorrectIndices))
		for _, idx := range q.CorrectIndices {
			want[idx] = true
		}
		return func(a Answer) bool {
			if len(a.Indices) != len(want) {
				return false
			}
			seen := make(map[int]bool, len(a.Indices))
			for _, idx := range a.Indices {
				if !want[idx] || seen[idx] {
					return false
				}
				seen[idx] = true
			}
			return true
		}
	case model.QuestionTypeMatching:
		want := make(map[string]string, len(q.Pairs))
		for _, p := range q.Pairs {
			want[p.Left] = p.Right
		}
		return func(a Answer) bool {
			if len(a.Matches) != len(want) {
				return false
			}
			for left, right := range a.Matches {
				if want[left] != right {
					return false
				}
			}
			return true
		}
	default:
		return func(Answer) bool { return false }
	}
}
