package repo

import "sync"

// PendingQuestion ties a question forwarded to the curator back to
// the student who is awaiting the answer.
type PendingQuestion struct {
	UserID   int64
	Question string
}

// PendingStore maps the Telegram message ID of each forwarded
// question to the student and question text behind it. Entries are
// written when a question is forwarded and kept for the process
// lifetime; answer routing resolves its target from the reply action
// token, so this table is the cross-reference that records which
// literal message carried which question.
type PendingStore struct {
	mu      sync.RWMutex
	pending map[int]PendingQuestion
}

// NewPendingStore creates an empty store.
func NewPendingStore() *PendingStore {
	return &PendingStore{
		pending: make(map[int]PendingQuestion),
	}
}

// Add records the correlation for a forwarded question.
func (s *PendingStore) Add(messageID int, p PendingQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[messageID] = p
}

// Get looks up the correlation for a curator-side message ID.
func (s *PendingStore) Get(messageID int) (PendingQuestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[messageID]
	return p, ok
}

// Len returns the number of recorded correlations.
func (s *PendingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
