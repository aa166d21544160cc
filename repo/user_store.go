package repo

import (
	"fmt"
	"strings"
	"sync"

	"SupportBot/model"
)

// Question text is cut to this many characters per history line. Only
// the rendered line is truncated, storage keeps the full text.
const maxHistoryLineLength = 150

// UserStore keeps registered student profiles and their question
// history in memory. Profiles live for the process lifetime and are
// never deleted; the question log only grows.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]*model.UserProfile
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[int64]*model.UserProfile),
	}
}

// Register creates the profile for a student who completed the
// contact step. Registration is one-time: a repeated call leaves the
// existing profile and its question history untouched.
func (s *UserStore) Register(profile model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[profile.UserID]; ok {
		return
	}
	p := profile
	s.users[profile.UserID] = &p
}

// Exists reports whether the user has completed registration.
func (s *UserStore) Exists(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok
}

// Get returns a snapshot of the user's profile. The returned question
// slice is a copy, so callers cannot mutate stored history.
func (s *UserStore) Get(userID int64) (model.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return model.UserProfile{}, false
	}
	p := *u
	p.Questions = append([]string(nil), u.Questions...)
	return p, true
}

// RecordQuestion appends a question to the user's history. Returns
// model.ErrUnknownUser if the user never registered.
func (s *UserStore) RecordQuestion(userID int64, question string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUnknownUser
	}
	u.Questions = append(u.Questions, question)
	return nil
}

// QuestionCount returns how many questions the user has submitted.
func (s *UserStore) QuestionCount(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return 0
	}
	return len(u.Questions)
}

// HasOverflowHistory reports whether the user has more questions than
// fit in the recent-history window shown to the curator.
func (s *UserStore) HasOverflowHistory(userID int64) bool {
	return s.QuestionCount(userID) > model.MaxVisibleQuestions
}

// FullHistory returns the user's questions, untruncated, in
// submission order.
func (s *UserStore) FullHistory(userID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return append([]string(nil), u.Questions...)
}

// FormatRecentHistory renders the user's questions as numbered lines.
// With more than model.MaxVisibleQuestions stored, only the most
// recent window is rendered, behind a count-of-total banner, and the
// numbering continues from the overall total.
func (s *UserStore) FormatRecentHistory(userID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return ""
	}

	questions := u.Questions
	if len(questions) <= model.MaxVisibleQuestions {
		return renderHistoryLines(questions, 1)
	}

	visible := questions[len(questions)-model.MaxVisibleQuestions:]
	body := renderHistoryLines(visible, len(questions)-model.MaxVisibleQuestions+1)
	return fmt.Sprintf("📜 Последние %d вопроса (всего %d):\n%s",
		model.MaxVisibleQuestions, len(questions), body)
}

func renderHistoryLines(questions []string, startNumber int) string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		lines = append(lines, fmt.Sprintf("%d. %s", startNumber+i, truncate(q, maxHistoryLineLength)))
	}
	return strings.Join(lines, "\n")
}

// truncate cuts text to limit characters, appending an ellipsis
// marker. Counted in runes, not bytes, so Cyrillic text is not cut
// mid-character.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
