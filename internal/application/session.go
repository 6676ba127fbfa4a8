package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

type sessionConfig struct {
	output    io.Writer
	exchanges ports.ExchangeLog
	clock     ports.Clock
	logger    *zap.Logger
	timeout   time.Duration
}

// Session is one live evaluator. It owns its channel exclusively: closing the
// session kills the evaluator.
type Session struct {
	info      domain.SessionInfo
	channel   ports.Channel
	output    io.Writer
	exchanges ports.ExchangeLog
	clock     ports.Clock
	logger    *zap.Logger
	timeout   time.Duration

	// turn admits one redirected request (or interactive write) at a time.
	turn   chan struct{}
	closed chan struct{}

	mu       sync.Mutex
	dialect  domain.DialectID
	patterns domain.Patterns
	pending  *redirect
	closing  bool
	arglists arglistCache
}

func newSession(info domain.SessionInfo, dialect domain.Dialect, cfg sessionConfig) (*Session, error) {
	patterns, err := dialect.Patterns()
	if err != nil {
		return nil, err
	}
	if cfg.output == nil {
		cfg.output = io.Discard
	}
	if cfg.exchanges == nil {
		cfg.exchanges = ports.NopExchangeLog{}
	}
	if cfg.clock == nil {
		cfg.clock = ports.SystemClock{}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultRequestTimeout
	}

	info.Dialect = dialect.ID
	return &Session{
		info:      info,
		output:    cfg.output,
		exchanges: cfg.exchanges,
		clock:     cfg.clock,
		logger:    cfg.logger.With(zap.String("session", string(info.ID)), zap.String("name", info.Name)),
		timeout:   cfg.timeout,
		turn:      make(chan struct{}, 1),
		closed:    make(chan struct{}),
		dialect:   dialect.ID,
		patterns:  patterns,
	}, nil
}

// attach binds the channel and starts watching it for exit.
func (s *Session) attach(channel ports.Channel) {
	s.channel = channel
	go func() {
		<-channel.Done()
		s.close(domain.ErrSessionClosed)
	}()
}

func (s *Session) ID() domain.SessionID {
	return s.info.ID
}

func (s *Session) Info() domain.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := s.info
	info.Dialect = s.dialect
	return info
}

func (s *Session) Dialect() domain.DialectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialect
}

func (s *Session) Patterns() domain.Patterns {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patterns
}

// Alive reports whether the session can still take requests.
func (s *Session) Alive() bool {
	select {
	case <-s.closed:
		return false
	default:
	}
	return s.channel != nil && s.channel.Alive()
}

// Done is closed once the session has been destroyed.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

func (s *Session) setDialect(dialect domain.Dialect) error {
	patterns, err := dialect.Patterns()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dialect = dialect.ID
	s.patterns = patterns
	s.arglists.reset()
	return nil
}

// Send is the interactive path: the input is written without capturing the
// reply, which flows to the session output.
func (s *Session) Send(ctx context.Context, input string) error {
	sanitized := domain.Sanitize(input)
	if sanitized == "" {
		return nil
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	return s.write(ctx, sanitized)
}

func (s *Session) write(ctx context.Context, sanitized string) error {
	if !s.Alive() {
		return fmt.Errorf("send to session %s: %w", s.info.ID, domain.ErrSessionClosed)
	}

	s.record(ctx, ports.DirectionRequest, sanitized)
	if _, err := s.channel.Write([]byte(sanitized)); err != nil {
		return fmt.Errorf("send to session %s: %w", s.info.ID, errors.Join(domain.ErrSessionClosed, err))
	}
	return nil
}

func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.turn <- struct{}{}:
		return nil
	case <-s.closed:
		return fmt.Errorf("session %s: %w", s.info.ID, domain.ErrSessionClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) release() {
	<-s.turn
}

// Kill destroys the session and its evaluator.
func (s *Session) Kill() error {
	var err error
	if s.channel != nil {
		err = s.channel.Kill()
	}
	s.close(domain.ErrSessionClosed)
	return err
}

// close fails any pending request and runs the close hook once.
func (s *Session) close(cause error) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.closing = true
	if r := s.pending; r != nil {
		s.pending = nil
		r.finish(stateFailed, "", fmt.Errorf("session %s: %w", s.info.ID, cause))
	}
	s.arglists.reset()
	close(s.closed)
	s.mu.Unlock()

	s.logger.Info("session closed", zap.NamedError("cause", cause))
}

func (s *Session) record(ctx context.Context, direction ports.Direction, text string) {
	err := s.exchanges.Record(ctx, ports.Exchange{
		Session:   s.info.ID,
		Dialect:   s.Dialect(),
		Direction: direction,
		Text:      text,
		At:        s.clock.Now(),
	})
	if err != nil {
		s.logger.Warn("record exchange", zap.Error(err))
	}
}
