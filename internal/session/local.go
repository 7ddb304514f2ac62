package session

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
)

// localProvider implements Provider against the users table: bcrypt password
// hashes and HS256 session tokens.
type localProvider struct {
	db *gorm.DB

	mu      sync.Mutex
	current *Session
	events  chan Event
}

// NewLocalProvider creates a database-backed auth provider.
func NewLocalProvider(db *gorm.DB) Provider {
	return &localProvider{db: db, events: make(chan Event, 8)}
}

func (p *localProvider) Events() <-chan Event {
	return p.events
}

// GetSession returns the current session if it is still valid.
func (p *localProvider) GetSession() (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	if _, err := ValidateToken(p.current.Token); err != nil {
		p.current = nil
		return nil, nil
	}
	sess := *p.current
	return &sess, nil
}

func (p *localProvider) SignInWithPassword(email, password string) (*Session, error) {
	var user models.User
	if err := p.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return p.establish(&user)
}

func (p *localProvider) SignUp(email, password string) (*Session, error) {
	email = strings.ToLower(email)

	var count int64
	if err := p.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{Email: email, Password: string(hash)}
	if err := p.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return p.establish(user)
}

func (p *localProvider) SignOut() error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.emit(Event{Kind: EventSignedOut})
	return nil
}

// Refresh reissues the token for the current session and emits a
// TOKEN_REFRESHED event.
func (p *localProvider) Refresh() (*Session, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	if err := p.db.First(&user, "id = ?", current.UserID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	token, expiresAt, err := GenerateToken(&user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sess := &Session{UserID: user.ID, Email: user.Email, Token: token, ExpiresAt: expiresAt}

	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()
	p.emit(Event{Kind: EventTokenRefreshed, Session: sess})

	out := *sess
	return &out, nil
}

// establish issues a token, stores the session, and emits SIGNED_IN.
func (p *localProvider) establish(user *models.User) (*Session, error) {
	token, expiresAt, err := GenerateToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sess := &Session{UserID: user.ID, Email: user.Email, Token: token, ExpiresAt: expiresAt}

	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()
	p.emit(Event{Kind: EventSignedIn, Session: sess})

	out := *sess
	return &out, nil
}

// emit delivers an event without ever blocking the caller.
func (p *localProvider) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
	}
}
