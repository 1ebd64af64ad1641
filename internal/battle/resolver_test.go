package battle

import (
	"testing"

	"github.com/classquest/classquest-backend/internal/model"
)

func TestResolveCorrectAnswerDealsFullDamage(t *testing.T) {
	q := testQuestion(25, 10)
	res := Resolve(&q, correct(), 100)
	if !res.Correct || res.DamageToBoss != 25 || res.HPLost != 0 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestResolveWrongAnswerCostsPenalty(t *testing.T) {
	q := testQuestion(25, 10)
	res := Resolve(&q, wrong(), 100)
	if res.Correct || res.DamageToBoss != 0 || res.HPLost != 10 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestResolveClampsPenaltyAtRemainingHP(t *testing.T) {
	q := testQuestion(25, 30)
	res := Resolve(&q, wrong(), 20)
	if res.HPLost != 20 {
		t.Fatalf("expected HP loss clamped to 20, got %d", res.HPLost)
	}
}

func TestCorrectorSingleChoice(t *testing.T) {
	q := &model.BattleQuestion{
		QuestionType: model.QuestionTypeSingleChoice,
		Options:      []string{"a", "b", "c"},
		CorrectIndex: intp(1),
	}
	grade := Corrector(q)

	if !grade(Answer{Index: intp(1)}) {
		t.Fatal("matching index should grade correct")
	}
	if grade(Answer{Index: intp(0)}) {
		t.Fatal("wrong index should grade incorrect")
	}
	if grade(Answer{}) {
		t.Fatal("missing index should grade incorrect")
	}
}

func TestCorrectorMultipleChoiceIsOrderInsensitive(t *testing.T) {
	q := &model.BattleQuestion{
		QuestionType:   model.QuestionTypeMultipleChoice,
		Options:        []string{"a", "b", "c", "d"},
		CorrectIndices: []int{0, 2},
	}
	grade := Corrector(q)

	tests := []struct {
		name    string
		indices []int
		want    bool
	}{
		{name: "exact", indices: []int{0, 2}, want: true},
		{name: "reversed", indices: []int{2, 0}, want: true},
		{name: "subset", indices: []int{0}, want: false},
		{name: "superset", indices: []int{0, 2, 3}, want: false},
		{name: "duplicate", indices: []int{0, 0}, want: false},
		{name: "disjoint", indices: []int{1, 3}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grade(Answer{Indices: tt.indices}); got != tt.want {
				t.Fatalf("grade(%v) = %v, want %v", tt.indices, got, tt.want)
			}
		})
	}
}

func TestCorrectorMatchingRequiresEveryPair(t *testing.T) {
	q := &model.BattleQuestion{
		QuestionType: model.QuestionTypeMatching,
		Pairs: []model.MatchingPair{
			{Left: "cat", Right: "meow"},
			{Left: "dog", Right: "woof"},
		},
	}
	grade := Corrector(q)

	if !grade(Answer{Matches: map[string]string{"cat": "meow", "dog": "woof"}}) {
		t.Fatal("full correct mapping should grade correct")
	}
	if grade(Answer{Matches: map[string]string{"cat": "meow"}}) {
		t.Fatal("partial mapping should grade incorrect")
	}
	if grade(Answer{Matches: map[string]string{"cat": "woof", "dog": "meow"}}) {
		t.Fatal("swapped mapping should grade incorrect")
	}
}
