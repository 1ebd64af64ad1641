package battle

import "errors"

// Domain errors surfaced by the engine. All of them are per-request failures:
// a rejected submission leaves the session state untouched.
var (
	// ErrNoQuestions means a battle cannot start because the boss has no questions.
	ErrNoQuestions = errors.New("boss has no questions, cannot start battle")

	// ErrNoEligibleParticipants means no supplied student has HP above zero.
	ErrNoEligibleParticipants = errors.New("no eligible participants with HP above zero")

	// ErrIneligibleParticipant rejects answers from unknown or 0-HP students.
	ErrIneligibleParticipant = errors.New("participant is not eligible to answer")

	// ErrNotYourTurn rejects BVJ submissions from anyone but the current turn holder.
	ErrNotYourTurn = errors.New("not this student's turn")

	// ErrAlreadyFinalized rejects submissions arriving after the session reached
	// a terminal state. Treated as a soft no-op by callers so retried clients
	// are not confused by a hard failure.
	ErrAlreadyFinalized = errors.New("battle session is already finalized")

	// ErrQuestionNotFound means the submitted question id is not part of this boss.
	ErrQuestionNotFound = errors.New("question not found in this battle")

	// ErrQuestionAlreadyAnswered rejects a CLASSIC-mode participant answering
	// the same question twice.
	ErrQuestionAlreadyAnswered = errors.New("question already answered by this participant")

	// ErrSessionNotFound means no active session exists for the given id.
	ErrSessionNotFound = errors.New("battle session not found")

	// ErrSessionExists means the boss already has an active session.
	ErrSessionExists = errors.New("boss already has an active battle session")
)
