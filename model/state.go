package model

// Conversation steps. StateIdle is the explicit initial state: a
// participant with no table entry is treated as idle, never as
// "unknown step".
const (
	StateIdle = iota

	// Student steps
	StateAwaitingContact
	StateAwaitingQuestion

	// Curator step
	StateAwaitingAnswer
)

// ConversationState tracks a participant's current step in the
// question/answer flow. TargetUserID is set only while the curator is
// composing an answer and names the student who will receive it.
type ConversationState struct {
	State        int
	TargetUserID int64
}
