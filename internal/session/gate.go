package session

import (
	"context"
	"regexp"
	"sync"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
)

// State is the gate's authentication state.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Transition describes one state change, with the session entering effect
// (nil when transitioning to anonymous).
type Transition struct {
	From    State
	To      State
	Session *Session
}

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Gate is the session state machine. It owns the authenticated identity,
// performs local credential syntax checks before the provider is contacted,
// and notifies a single listener on every state change.
type Gate struct {
	provider Provider
	listener func(Transition)

	mu      sync.Mutex
	state   State
	session *Session
}

// NewGate creates a gate in the anonymous state. The listener may be nil.
func NewGate(provider Provider, listener func(Transition)) *Gate {
	if listener == nil {
		listener = func(Transition) {}
	}
	return &Gate{provider: provider, listener: listener, state: StateAnonymous}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns a copy of the active session, or nil.
func (g *Gate) Session() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	out := *g.session
	return &out
}

// Require refuses unless the gate is authenticated. Every mutating document
// operation calls this first.
func (g *Gate) Require() error {
	if g.State() != StateAuthenticated {
		return apperrors.ErrSignInRequired
	}
	return nil
}

// SignIn authenticates with email and password. Syntactically invalid
// credentials are rejected locally, without contacting the provider.
func (g *Gate) SignIn(email, password string) (*Session, error) {
	return g.authenticate(email, password, g.provider.SignInWithPassword)
}

// SignUp registers a new identity, applying the same local checks.
func (g *Gate) SignUp(email, password string) (*Session, error) {
	return g.authenticate(email, password, g.provider.SignUp)
}

func (g *Gate) authenticate(email, password string, call func(string, string) (*Session, error)) (*Session, error) {
	if !emailRegex.MatchString(email) {
		return nil, apperrors.ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return nil, apperrors.ErrPasswordTooShort
	}

	g.transition(StateAuthenticating, nil)

	sess, err := call(email, password)
	if err != nil {
		g.transition(StateAnonymous, nil)
		return nil, err
	}

	g.transition(StateAuthenticated, sess)
	return sess, nil
}

// SignOut ends the session. A provider failure still drops local state.
func (g *Gate) SignOut() {
	if err := g.provider.SignOut(); err != nil {
		logger.Get().Warnw("provider sign-out failed", "error", err)
	}
	g.transition(StateAnonymous, nil)
}

// Resume adopts an existing provider session at startup, if one exists.
func (g *Gate) Resume() {
	sess, err := g.provider.GetSession()
	if err != nil {
		logger.Get().Warnw("session resume failed", "error", err)
		return
	}
	if sess != nil {
		g.transition(StateAuthenticated, sess)
	}
}

// Run consumes the provider's event channel until ctx is done, translating
// each event into a state-machine transition. Call it once, in its own
// goroutine.
func (g *Gate) Run(ctx context.Context) {
	events := g.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			g.apply(ev)
		}
	}
}

// apply maps one provider event onto a transition.
func (g *Gate) apply(ev Event) {
	switch ev.Kind {
	case EventInitial:
		if ev.Session != nil {
			g.transition(StateAuthenticated, ev.Session)
		}
	case EventSignedIn:
		g.transition(StateAuthenticated, ev.Session)
	case EventSignedOut:
		g.transition(StateAnonymous, nil)
	case EventTokenRefreshed:
		// Identity unchanged: swap the session without a state change.
		g.mu.Lock()
		if g.state == StateAuthenticated && ev.Session != nil {
			g.session = ev.Session
		}
		g.mu.Unlock()
	}
}

// transition moves the gate to a new state. Re-entering the current state
// with the same identity is a no-op, so direct calls and the provider events
// they trigger do not double-fire the listener.
func (g *Gate) transition(to State, sess *Session) {
	g.mu.Lock()
	from := g.state
	if from == to && sameIdentity(g.session, sess) {
		g.mu.Unlock()
		return
	}
	g.state = to
	g.session = sess
	g.mu.Unlock()

	g.listener(Transition{From: from, To: to, Session: sess})
}

func sameIdentity(a, b *Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UserID == b.UserID
}
