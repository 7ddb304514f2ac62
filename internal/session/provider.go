// Package session tracks authenticated identity and gates every mutating
// operation behind it.
//
// The auth provider is an external collaborator reached through the Provider
// boundary; the Gate is the single state machine translating provider events
// and direct calls into transitions.
package session

import "time"

// Session is an authenticated identity with its bearer token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventKind classifies auth state change events.
type EventKind string

const (
	EventInitial        EventKind = "INITIAL"
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is one auth state change delivered by the provider.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Provider is the auth boundary. Implementations own credential checks and
// session issuance; the gate owns the resulting state.
type Provider interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession() (*Session, error)
	SignInWithPassword(email, password string) (*Session, error)
	SignUp(email, password string) (*Session, error)
	SignOut() error
	// Events delivers auth state changes. The gate subscribes exactly once.
	Events() <-chan Event
}
