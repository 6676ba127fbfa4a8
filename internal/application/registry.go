package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
)

// Registry tracks every session in creation order plus the active pointer
// used by callers that are not themselves bound to a session.
type Registry struct {
	selector ports.SessionSelector

	mu       sync.Mutex
	sessions []*Session
	active   domain.SessionID
}

// NewRegistry accepts a nil selector; ambiguous selections then fail with
// domain.ErrNoActiveSession.
func NewRegistry(selector ports.SessionSelector) *Registry {
	return &Registry{selector: selector}
}

// Add registers a new session and pins it as active.
func (r *Registry) Add(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, session)
	r.active = session.ID()
}

func (r *Registry) Remove(id domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, session := range r.sessions {
		if session.ID() == id {
			r.sessions = append(r.sessions[:i:i], r.sessions[i+1:]...)
			break
		}
	}
	if r.active == id {
		r.active = ""
	}
}

func (r *Registry) Get(id domain.SessionID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lookupLocked(id)
}

func (r *Registry) lookupLocked(id domain.SessionID) (*Session, error) {
	for _, session := range r.sessions {
		if session.ID() == id {
			return session, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
}

// Sessions returns every registered session, dead or alive.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Session(nil), r.sessions...)
}

// Live returns the sessions whose channel is still alive, in creation order.
func (r *Registry) Live() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		if session.Alive() {
			live = append(live, session)
		}
	}
	return live
}

// Active returns the pinned session, or nil when none is pinned or the pinned
// one has died.
func (r *Registry) Active() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == "" {
		return nil
	}
	session, err := r.lookupLocked(r.active)
	if err != nil || !session.Alive() {
		return nil
	}
	return session
}

func (r *Registry) SetActive(id domain.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.lookupLocked(id)
	if err != nil {
		return err
	}
	if !session.Alive() {
		return fmt.Errorf("activate session %s: %w", id, domain.ErrSessionClosed)
	}
	r.active = id
	return nil
}

// Resolve picks the session a request goes to. A non-empty current id names
// the caller's own session and wins outright. Otherwise the active session is
// used, falling back to Select when it is unset or dead.
func (r *Registry) Resolve(ctx context.Context, current domain.SessionID) (*Session, error) {
	if current != "" {
		session, err := r.Get(current)
		if err != nil {
			return nil, err
		}
		if !session.Alive() {
			return nil, fmt.Errorf("session %s: %w", current, domain.ErrSessionClosed)
		}
		return session, nil
	}

	if session := r.Active(); session != nil {
		return session, nil
	}
	return r.Select(ctx, "")
}

// Select chooses among live sessions, optionally restricted to one dialect.
// A single candidate is taken without asking; several go to the selector.
// The chosen session becomes active.
func (r *Registry) Select(ctx context.Context, dialect domain.DialectID) (*Session, error) {
	candidates := make([]*Session, 0)
	for _, session := range r.Live() {
		if dialect == "" || session.Dialect() == dialect {
			candidates = append(candidates, session)
		}
	}

	session, err := r.PromptSelection(ctx, candidates)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.active = session.ID()
	r.mu.Unlock()
	return session, nil
}

func (r *Registry) PromptSelection(ctx context.Context, candidates []*Session) (*Session, error) {
	switch len(candidates) {
	case 0:
		return nil, domain.ErrNoSessionAvailable
	case 1:
		return candidates[0], nil
	}

	if r.selector == nil {
		return nil, fmt.Errorf("%w: %d live sessions", domain.ErrNoActiveSession, len(candidates))
	}

	infos := make([]domain.SessionInfo, 0, len(candidates))
	for _, session := range candidates {
		infos = append(infos, session.Info())
	}

	id, err := r.selector.SelectSession(ctx, infos)
	if err != nil {
		if errors.Is(err, domain.ErrSelectionCancelled) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNoActiveSession, err)
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	for _, session := range candidates {
		if session.ID() == id {
			return session, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
}

// SessionStatus is a snapshot of one registered session for display.
type SessionStatus struct {
	Info   domain.SessionInfo
	Alive  bool
	Active bool
}

// Statuses reports every registered session in creation order.
func (r *Registry) Statuses() []SessionStatus {
	active := r.Active()

	sessions := r.Sessions()
	statuses := make([]SessionStatus, 0, len(sessions))
	for _, session := range sessions {
		statuses = append(statuses, SessionStatus{
			Info:   session.Info(),
			Alive:  session.Alive(),
			Active: active != nil && active.ID() == session.ID(),
		})
	}
	return statuses
}
