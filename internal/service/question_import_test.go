package service

import (
	"strings"
	"testing"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

func intp(i int) *int { return &i }

func TestBankToBattleQuestionMapsPointsAndDefaults(t *testing.T) {
	bossID := uuid.New()
	bq := model.BankQuestion{
		ID:           uuid.New(),
		QuestionType: "SINGLE_CHOICE",
		Prompt:       "capital of Peru",
		Options:      []string{"Lima", "Cusco"},
		CorrectIndex: intp(0),
		Points:       15,
	}

	q, err := BankToBattleQuestion(bq, bossID, 3)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if q.BossID != bossID || q.OrderNum != 3 {
		t.Fatalf("boss id and order must carry over: %+v", q)
	}
	if q.Damage != 15 {
		t.Fatalf("bank points become damage, got %d", q.Damage)
	}
	if q.TimeLimitSeconds != 30 {
		t.Fatalf("missing time limit defaults to 30, got %d", q.TimeLimitSeconds)
	}
	if q.HPPenalty != 0 {
		t.Fatalf("imported questions carry no penalty, got %d", q.HPPenalty)
	}
}

func TestBankToBattleQuestionFloorsDamageAtOne(t *testing.T) {
	bq := model.BankQuestion{
		QuestionType: "TRUE_FALSE",
		Prompt:       "zero point warmup",
		Options:      []string{"True", "False"},
		CorrectIndex: intp(1),
		Points:       0,
	}
	q, err := BankToBattleQuestion(bq, uuid.New(), 0)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if q.Damage != 1 {
		t.Fatalf("zero-point bank question still deals 1 damage, got %d", q.Damage)
	}
}

func TestBankToBattleQuestionRejectsUnknownType(t *testing.T) {
	bq := model.BankQuestion{
		QuestionType: "ESSAY",
		Prompt:       "explain photosynthesis",
		Points:       10,
	}
	_, err := BankToBattleQuestion(bq, uuid.New(), 0)
	if err == nil {
		t.Fatal("expected unknown bank type to be rejected")
	}
	if !strings.Contains(err.Error(), "ESSAY") {
		t.Fatalf("skip reason should name the offending type, got %v", err)
	}
}

func TestBankToBattleQuestionRejectsInvalidStructure(t *testing.T) {
	// A MATCHING question with a single pair is legal in the bank but can
	// never form a gradable battle question.
	bq := model.BankQuestion{
		QuestionType: "MATCHING",
		Prompt:       "match the capital",
		Pairs:        []model.MatchingPair{{Left: "France", Right: "Paris"}},
		Points:       10,
	}
	_, err := BankToBattleQuestion(bq, uuid.New(), 0)
	if err == nil {
		t.Fatal("expected one-pair MATCHING import to be rejected")
	}
}
