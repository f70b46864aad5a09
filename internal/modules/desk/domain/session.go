package domain

import (
	"strings"
	"sync"

	events "eventDeskProxy/internal/modules/events/domain"
)

// SessionState is the sign-in state of the desk.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// ReasonLoginFailed is shown at the login prompt after a forced sign-out.
const ReasonLoginFailed = "Login failed. Please sign in again."

// Session keeps the operator credential between commands. The uid is never
// kept; every proxy call re-authenticates with the credential.
type Session struct {
	mu     sync.RWMutex
	cred   events.Credential
	state  SessionState
	reason string
}

func NewSession() *Session {
	return &Session{state: StateAnonymous}
}

// SignIn stores a credential that the proxy has just accepted.
func (s *Session) SignIn(cred events.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = events.Credential{
		User:     strings.TrimSpace(cred.User),
		Password: cred.Password,
		Database: strings.TrimSpace(cred.Database),
	}
	s.state = StateAuthenticated
	s.reason = ""
}

// SignOut forgets the credential. reason may be empty for a voluntary logout.
func (s *Session) SignOut(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = events.Credential{}
	s.state = StateAnonymous
	s.reason = reason
}

// Credential returns the stored credential and whether the session is signed in.
func (s *Session) Credential() (events.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.state == StateAuthenticated
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// TakeReason returns the pending sign-out reason once.
func (s *Session) TakeReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	reason := s.reason
	s.reason = ""
	return reason
}
