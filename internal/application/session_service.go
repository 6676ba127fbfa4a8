package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultStartupTimeout = 30 * time.Second

type SessionConfig struct {
	Factory        ports.ChannelFactory
	Prompter       ports.ValuePrompter
	Exchanges      ports.ExchangeLog
	Clock          ports.Clock
	Logger         *zap.Logger
	Output         io.Writer
	RequestTimeout time.Duration
	StartupTimeout time.Duration
	NewID          func() domain.SessionID
}

// SessionService starts, restarts and stops sessions and keeps the registry
// in step with them.
type SessionService struct {
	dialects *Dialects
	registry *Registry
	cfg      SessionConfig
	output   io.Writer

	mu       sync.Mutex
	starting map[string]int
}

func NewSessionService(dialects *Dialects, registry *Registry, cfg SessionConfig) *SessionService {
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Exchanges == nil {
		cfg.Exchanges = ports.NopExchangeLog{}
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = defaultStartupTimeout
	}
	if cfg.NewID == nil {
		cfg.NewID = func() domain.SessionID { return domain.SessionID(uuid.NewString()) }
	}

	output := cfg.Output
	if output == nil {
		output = io.Discard
	}

	return &SessionService{
		dialects: dialects,
		registry: registry,
		cfg:      cfg,
		output:   &syncWriter{w: output},
		starting: make(map[string]int),
	}
}

func (s *SessionService) Registry() *Registry {
	return s.registry
}

// Start launches an evaluator for the given dialect and waits for its first
// prompt. The new session becomes active.
func (s *SessionService) Start(ctx context.Context, cmd StartCommand) (*Session, error) {
	dialect, err := s.dialects.Dialect(cmd.Dialect)
	if err != nil {
		return nil, err
	}

	endpoint, err := s.resolveEndpoint(ctx, dialect, cmd.Endpoint)
	if err != nil {
		return nil, err
	}

	info := domain.SessionInfo{
		ID:        s.cfg.NewID(),
		Name:      strings.TrimSpace(cmd.Name),
		Endpoint:  endpoint,
		Project:   cmd.Project,
		CreatedAt: s.cfg.Clock.Now(),
	}
	info.Name = s.claimName(dialect.ID, info.Name)
	defer s.releaseName(info.Name)

	session, err := newSession(info, dialect, sessionConfig{
		output:    s.output,
		exchanges: s.cfg.Exchanges,
		clock:     s.cfg.Clock,
		logger:    s.cfg.Logger,
		timeout:   s.cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	var ready *redirect
	if !cmd.SkipReadyWait {
		ready = session.expectReady()
	}

	channel, err := s.cfg.Factory.Open(ctx, endpoint, session.deliver)
	if err != nil {
		if ready != nil {
			session.release()
		}
		return nil, fmt.Errorf("open %s channel to %s: %w", endpoint.Transport, endpoint, err)
	}
	session.attach(channel)

	if ready != nil {
		if err := session.awaitReady(ctx, ready, s.cfg.StartupTimeout); err != nil {
			killErr := session.Kill()
			return nil, fmt.Errorf("wait for %s prompt: %w", dialect.ID, errors.Join(err, killErr))
		}
	}

	s.registry.Add(session)
	s.cfg.Logger.Info("session started",
		zap.String("session", string(info.ID)),
		zap.String("name", info.Name),
		zap.String("dialect", string(dialect.ID)),
		zap.Stringer("endpoint", endpoint),
	)

	return session, nil
}

func (s *SessionService) resolveEndpoint(ctx context.Context, dialect domain.Dialect, endpoint domain.Endpoint) (domain.Endpoint, error) {
	if endpoint.Transport == "" {
		endpoint.Transport = domain.TransportProcess
	}

	if endpoint.Transport != domain.TransportSocket && len(endpoint.Args) == 0 {
		command := strings.Join(dialect.Command, " ")
		if s.cfg.Prompter != nil {
			value, err := s.cfg.Prompter.PromptValue(ctx, fmt.Sprintf("Run %s", dialect.ID), command)
			if err != nil {
				return domain.Endpoint{}, fmt.Errorf("prompt for command: %w", err)
			}
			command = value
		}
		endpoint.Args = strings.Fields(command)
	}

	if err := endpoint.Validate(); err != nil {
		return domain.Endpoint{}, fmt.Errorf("dialect %s: %w", dialect.ID, err)
	}
	return endpoint, nil
}

// claimName holds name until the start finishes. An empty name becomes the
// dialect id, or the first free "<dialect><n>" when that is taken by a live
// or starting session.
func (s *SessionService) claimName(dialect domain.DialectID, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		taken := make(map[string]bool, len(s.starting))
		for pending := range s.starting {
			taken[pending] = true
		}
		for _, session := range s.registry.Sessions() {
			taken[session.Info().Name] = true
		}

		name = string(dialect)
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s<%d>", dialect, n)
		}
	}

	s.starting[name]++
	return name
}

func (s *SessionService) releaseName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.starting[name]--
	if s.starting[name] <= 0 {
		delete(s.starting, name)
	}
}

// Quit kills the session and forgets it.
func (s *SessionService) Quit(ctx context.Context, id domain.SessionID) error {
	session, err := s.registry.Get(id)
	if err != nil {
		return err
	}

	s.registry.Remove(id)
	if err := session.Kill(); err != nil {
		return fmt.Errorf("kill session %s: %w", id, err)
	}
	return nil
}

// Restart replaces a session with a fresh evaluator on the same endpoint.
func (s *SessionService) Restart(ctx context.Context, id domain.SessionID) (*Session, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	info := session.Info()

	if err := s.Quit(ctx, id); err != nil {
		s.cfg.Logger.Warn("kill session before restart", zap.String("session", string(id)), zap.Error(err))
	}

	return s.Start(ctx, StartCommand{
		Dialect:  info.Dialect,
		Endpoint: info.Endpoint,
		Name:     info.Name,
		Project:  info.Project,
	})
}

// SetDialect switches how an existing session is talked to.
func (s *SessionService) SetDialect(ctx context.Context, id domain.SessionID, dialect domain.DialectID) error {
	session, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	next, err := s.dialects.Dialect(dialect)
	if err != nil {
		return err
	}
	return session.setDialect(next)
}

// Shutdown kills every session concurrently.
func (s *SessionService) Shutdown(ctx context.Context) error {
	group, _ := errgroup.WithContext(ctx)
	for _, session := range s.registry.Sessions() {
		group.Go(func() error {
			s.registry.Remove(session.ID())
			if err := session.Kill(); err != nil {
				return fmt.Errorf("kill session %s: %w", session.ID(), err)
			}
			return nil
		})
	}
	return group.Wait()
}

// syncWriter serializes output from concurrently running sessions.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
