package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BattleQuestionType enumerates the supported question shapes.
type BattleQuestionType string

const (
	QuestionTypeTrueFalse      BattleQuestionType = "TRUE_FALSE"
	QuestionTypeSingleChoice   BattleQuestionType = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice BattleQuestionType = "MULTIPLE_CHOICE"
	QuestionTypeMatching       BattleQuestionType = "MATCHING"
)

// MatchingPair is one left/right pair of a MATCHING question.
type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// BattleQuestion is a single question attached to a boss. Options, pairs and
// the correct indices are stored as structured columns so grading never has
// to re-parse stringified payloads.
type BattleQuestion struct {
	ID               uuid.UUID          `json:"id"`
	BossID           uuid.UUID          `json:"boss_id"`
	QuestionType     BattleQuestionType `json:"question_type"`
	Prompt           string             `json:"prompt"`
	ImageURL         string             `json:"image_url,omitempty"`
	Options          []string           `json:"options,omitempty"`
	Pairs            []MatchingPair     `json:"pairs,omitempty"`
	CorrectIndex     *int               `json:"correct_index,omitempty"`
	CorrectIndices   []int              `json:"correct_indices,omitempty"`
	Damage           int                `json:"damage"`
	HPPenalty        int                `json:"hp_penalty"`
	TimeLimitSeconds int                `json:"time_limit_seconds"`
	OrderNum         int                `json:"order_num"`
}

// AddQuestionRequest is the payload for adding a question to a boss.
type AddQuestionRequest struct {
	QuestionType     string         `json:"question_type" binding:"required,oneof=TRUE_FALSE SINGLE_CHOICE MULTIPLE_CHOICE MATCHING"`
	Prompt           string         `json:"prompt" binding:"required,min=1,max=2000"`
	ImageURL         string         `json:"image_url" binding:"omitempty,max=2048"`
	Options          []string       `json:"options" binding:"omitempty,dive,min=1"`
	Pairs            []MatchingPair `json:"pairs" binding:"omitempty"`
	CorrectIndex     *int           `json:"correct_index" binding:"omitempty,min=0"`
	CorrectIndices   []int          `json:"correct_indices" binding:"omitempty,dive,min=0"`
	Damage           int            `json:"damage" binding:"required,min=1"`
	HPPenalty        int            `json:"hp_penalty" binding:"min=0"`
	TimeLimitSeconds int            `json:"time_limit_seconds" binding:"omitempty,min=5,max=600"`
	OrderNum         int            `json:"order_num" binding:"min=0"`
}

// UpdateQuestionRequest is the payload for replacing a question's content.
// Questions are replaced whole rather than patched field-by-field: partial
// edits of option lists and correct indices cannot be validated in isolation.
type UpdateQuestionRequest = AddQuestionRequest

// ValidationError reports the authoring rules a question or boss violates.
type ValidationError struct {
	Rules []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Rules, "; ")
}

// Validate checks the per-type answer structure. Every type must resolve to
// one canonical correct set:
//   - TRUE_FALSE: exactly 2 options, one correct index
//   - SINGLE_CHOICE: >=2 options, exactly one correct index
//   - MULTIPLE_CHOICE: >=2 options, >=2 correct indices
//   - MATCHING: >=2 pairs, all pairs implicitly correct
func (q *BattleQuestion) Validate() error {
	var rules []string

	if q.Damage < 1 {
		rules = append(rules, "damage must be at least 1")
	}
	if q.HPPenalty < 0 {
		rules = append(rules, "hp_penalty must not be negative")
	}

	switch q.QuestionType {
	case QuestionTypeTrueFalse:
		if len(q.Options) != 2 {
			rules = append(rules, "TRUE_FALSE requires exactly 2 options")
		}
		rules = append(rules, q.checkSingleCorrect()...)
	case QuestionTypeSingleChoice:
		if len(q.Options) < 2 {
			rules = append(rules, "SINGLE_CHOICE requires at least 2 options")
		}
		rules = append(rules, q.checkSingleCorrect()...)
	case QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			rules = append(rules, "MULTIPLE_CHOICE requires at least 2 options")
		}
		if len(q.CorrectIndices) < 2 {
			rules = append(rules, "MULTIPLE_CHOICE requires at least 2 correct indices")
		}
		seen := make(map[int]bool, len(q.CorrectIndices))
		for _, idx := range q.CorrectIndices {
			if idx < 0 || idx >= len(q.Options) {
				rules = append(rules, fmt.Sprintf("correct index %d is out of range", idx))
			}
			if seen[idx] {
				rules = append(rules, fmt.Sprintf("correct index %d is duplicated", idx))
			}
			seen[idx] = true
		}
		if q.CorrectIndex != nil {
			rules = append(rules, "MULTIPLE_CHOICE must not set correct_index")
		}
	case QuestionTypeMatching:
		if len(q.Pairs) < 2 {
			rules = append(rules, "MATCHING requires at least 2 pairs")
		}
		for i, p := range q.Pairs {
			if p.Left == "" || p.Right == "" {
				rules = append(rules, fmt.Sprintf("pair %d must have both sides", i))
			}
		}
		if len(q.Options) > 0 || q.CorrectIndex != nil || len(q.CorrectIndices) > 0 {
			rules = append(rules, "MATCHING must not set options or correct indices")
		}
	default:
		rules = append(rules, fmt.Sprintf("unknown question type %q", q.QuestionType))
	}

	if len(rules) > 0 {
		return &ValidationError{Rules: rules}
	}
	return nil
}

func (q *BattleQuestion) checkSingleCorrect() []string {
	var rules []string
	if q.CorrectIndex == nil {
		rules = append(rules, string(q.QuestionType)+" requires exactly one correct index")
	} else if *q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options) {
		rules = append(rules, fmt.Sprintf("correct index %d is out of range", *q.CorrectIndex))
	}
	if len(q.CorrectIndices) > 0 {
		rules = append(rules, string(q.QuestionType)+" must not set correct_indices")
	}
	if len(q.Pairs) > 0 {
		rules = append(rules, string(q.QuestionType)+" must not set pairs")
	}
	return rules
}
