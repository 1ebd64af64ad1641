package service

import (
	"fmt"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
)

// BankToBattleQuestion maps one question bank row onto a battle question
// draft. Bank points become the damage default and the bank time limit is
// carried over; a row whose type or answer structure cannot form a valid
// battle question is rejected with the reason the import summary reports.
func BankToBattleQuestion(bq model.BankQuestion, bossID uuid.UUID, orderNum int) (model.BattleQuestion, error) {
	var qType model.BattleQuestionType
	switch model.BattleQuestionType(bq.QuestionType) {
	case model.QuestionTypeTrueFalse:
		qType = model.QuestionTypeTrueFalse
	case model.QuestionTypeSingleChoice:
		qType = model.QuestionTypeSingleChoice
	case model.QuestionTypeMultipleChoice:
		qType = model.QuestionTypeMultipleChoice
	case model.QuestionTypeMatching:
		qType = model.QuestionTypeMatching
	default:
		return model.BattleQuestion{}, fmt.Errorf("bank type %q has no battle equivalent", bq.QuestionType)
	}

	damage := bq.Points
	if damage < 1 {
		damage = 1
	}
	timeLimit := bq.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = 30
	}

	draft := model.BattleQuestion{
		BossID:           bossID,
		QuestionType:     qType,
		Prompt:           bq.Prompt,
		ImageURL:         bq.ImageURL,
		Options:          bq.Options,
		Pairs:            bq.Pairs,
		CorrectIndex:     bq.CorrectIndex,
		CorrectIndices:   bq.CorrectIndices,
		Damage:           damage,
		HPPenalty:        0,
		TimeLimitSeconds: timeLimit,
		OrderNum:         orderNum,
	}

	if err := draft.Validate(); err != nil {
		return model.BattleQuestion{}, err
	}
	return draft, nil
}
