// Package quiz tracks one in-flight quiz question per session: its outcome
// and whether a wrong answer's payment has settled. State is in-memory and
// process-wide; this is a single-process demo.
package quiz

import (
	"errors"
	"sync"
	"time"
)

// ErrPendingPayment means the session's wrong answer has not been paid for
// yet, so the next question cannot be unlocked.
var ErrPendingPayment = errors.New("pending_payment")

// Outcome of the session's last submitted answer.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
)

// Session tracks one quiz question's outcome pending settlement.
type Session struct {
	QuestionID     string
	LastOutcome    Outcome
	PaymentSettled bool
	Timestamp      time.Time
}

// Store is a keyed session map. The mutex guards the map itself; concurrent
// submit/settle races for the same session id are an accepted demo-scale
// limitation.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// RecordSubmit records an answer outcome for a session, creating the
// session on first submit.
func (s *Store) RecordSubmit(sessionID, questionID string, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := OutcomeWrong
	if correct {
		outcome = OutcomeCorrect
	}

	s.sessions[sessionID] = &Session{
		QuestionID:     questionID,
		LastOutcome:    outcome,
		PaymentSettled: false,
		Timestamp:      s.now(),
	}
}

// RecordSettle marks the session's wrong answer as paid for.
func (s *Store) RecordSettle(sessionID, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		s.sessions[sessionID] = &Session{
			QuestionID:     questionID,
			LastOutcome:    OutcomeWrong,
			PaymentSettled: true,
			Timestamp:      s.now(),
		}
		return
	}

	session.PaymentSettled = true
	session.Timestamp = s.now()
}

// Get returns a copy of the session, if any.
func (s *Store) Get(sessionID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// Advance clears the session so the next question can start. Allowed only
// when the last outcome was correct, or wrong with the payment settled. A
// session that never submitted has nothing pending and advances freely.
func (s *Store) Advance(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	if session.LastOutcome == OutcomeWrong && !session.PaymentSettled {
		return ErrPendingPayment
	}

	delete(s.sessions, sessionID)
	return nil
}
