package model

// Message limits and display windows for the support flow.
const (
	MaxQuestionLength   = 700
	MaxAnswerLength     = 2000
	MaxVisibleQuestions = 3
	BulkExportThreshold = 10
)

// UserProfile is created once, when the student shares their contact.
// Only Questions changes afterwards, and only by appending.
type UserProfile struct {
	UserID      int64
	FullName    string
	Username    string
	PhoneNumber string
	Questions   []string
}
