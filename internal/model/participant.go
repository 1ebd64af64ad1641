package model

// Participant is the roster entry the engine needs about a student: identity
// and current hit points, fetched once from the roster collaborator when a
// battle starts and never re-derived mid-session.
type Participant struct {
	StudentID int `json:"student_id"`
	CurrentHP int `json:"current_hp"`
}
