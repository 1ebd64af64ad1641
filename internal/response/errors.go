package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Boss lifecycle ────────────────────────────────────────────────
	ErrBossNotDraft      ErrCode = "BOSS_NOT_DRAFT"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrBattleInProgress  ErrCode = "BATTLE_IN_PROGRESS"
	ErrBattleNotFinished ErrCode = "BATTLE_NOT_FINISHED"

	// ─── Battle play ───────────────────────────────────────────────────
	ErrNoEligibleParticipants  ErrCode = "NO_ELIGIBLE_PARTICIPANTS"
	ErrIneligibleParticipant   ErrCode = "INELIGIBLE_PARTICIPANT"
	ErrNotYourTurn             ErrCode = "NOT_YOUR_TURN"
	ErrAlreadyFinalized        ErrCode = "BATTLE_ALREADY_FINALIZED"
	ErrQuestionAlreadyAnswered ErrCode = "QUESTION_ALREADY_ANSWERED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Boss lifecycle ────────────────────────────────────────────────
	case ErrBossNotDraft:
		return "This boss is not in DRAFT status."
	case ErrNoQuestions:
		return "This boss has no questions."
	case ErrBattleInProgress:
		return "This boss already has a battle in progress."
	case ErrBattleNotFinished:
		return "This battle has not finished yet."

	// ─── Battle play ───────────────────────────────────────────────────
	case ErrNoEligibleParticipants:
		return "No eligible participants with HP above zero."
	case ErrIneligibleParticipant:
		return "This student cannot answer in this battle."
	case ErrNotYourTurn:
		return "It is not this student's turn."
	case ErrAlreadyFinalized:
		return "This battle has already finished."
	case ErrQuestionAlreadyAnswered:
		return "This question was already answered by this student."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
