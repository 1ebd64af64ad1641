package model

import (
	"github.com/google/uuid"
)

// BankQuestion is a question bank row as exposed by the question bank
// collaborator. Bank questions are authored for generic quizzes, so a row is
// not guaranteed to map onto a valid battle question; import is best-effort.
type BankQuestion struct {
	ID               uuid.UUID      `json:"id"`
	BankID           uuid.UUID      `json:"bank_id"`
	QuestionType     string         `json:"question_type"`
	Prompt           string         `json:"prompt"`
	ImageURL         string         `json:"image_url,omitempty"`
	Options          []string       `json:"options,omitempty"`
	Pairs            []MatchingPair `json:"pairs,omitempty"`
	CorrectIndex     *int           `json:"correct_index,omitempty"`
	CorrectIndices   []int          `json:"correct_indices,omitempty"`
	Points           int            `json:"points"`
	TimeLimitSeconds int            `json:"time_limit_seconds"`
}

// ImportQuestionsRequest is the payload for importing bank questions into a boss.
type ImportQuestionsRequest struct {
	BankQuestionIDs []uuid.UUID `json:"bank_question_ids" binding:"required,min=1"`
}

// ImportSkip explains why one bank question was left out of an import.
type ImportSkip struct {
	BankQuestionID uuid.UUID `json:"bank_question_id"`
	Reason         string    `json:"reason"`
}

// ImportSummary reports the outcome of a best-effort bank import.
type ImportSummary struct {
	Imported []BattleQuestion `json:"imported"`
	Skipped  []ImportSkip     `json:"skipped"`
}
