package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
)

type redirectState int

const (
	stateIdle redirectState = iota
	stateSending
	stateAwaitingPrompt
	stateCaptured
	stateTimedOut
	stateFailed
)

func (s redirectState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateSending:
		return "sending"
	case stateAwaitingPrompt:
		return "awaiting-prompt"
	case stateCaptured:
		return "captured"
	case stateTimedOut:
		return "timed-out"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("redirectState(%d)", int(s))
	}
}

func (s redirectState) terminal() bool {
	return s == stateCaptured || s == stateTimedOut || s == stateFailed
}

// redirect is one in-flight captured exchange. Fields other than done are
// guarded by the owning session's mutex.
type redirect struct {
	state  redirectState
	begin  *regexp.Regexp
	end    *regexp.Regexp
	reply  replyScanner
	result string
	err    error
	done   chan struct{}
}

func newRedirect(opts RequestOptions) *redirect {
	return &redirect{
		state: stateIdle,
		begin: opts.Begin,
		end:   opts.End,
		done:  make(chan struct{}),
	}
}

func (r *redirect) finish(state redirectState, result string, err error) {
	if r.state.terminal() {
		return
	}
	r.state = state
	r.result = result
	r.err = err
	close(r.done)
}

// Request sends command and blocks until the session prints its prompt,
// returning the text in between. Whitespace-only commands are never written.
func (s *Session) Request(ctx context.Context, command string, opts RequestOptions) (string, error) {
	sanitized := domain.Sanitize(command)
	if sanitized == "" {
		return "", nil
	}

	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.release()

	r := newRedirect(opts)
	if err := s.install(r); err != nil {
		return "", err
	}

	s.mu.Lock()
	r.state = stateSending
	s.mu.Unlock()

	if err := s.write(ctx, sanitized); err != nil {
		s.abandon(r, stateFailed, err)
		return "", err
	}

	s.mu.Lock()
	if r.state == stateSending {
		r.state = stateAwaitingPrompt
	}
	s.mu.Unlock()

	return s.await(ctx, r, s.budget(opts))
}

// expectReady arms a redirect for the evaluator's first prompt. It is called
// before the channel opens so no early output slips past it. The turn stays
// held until awaitReady returns.
func (s *Session) expectReady() *redirect {
	s.turn <- struct{}{}

	r := newRedirect(RequestOptions{})
	r.state = stateAwaitingPrompt
	s.mu.Lock()
	s.pending = r
	s.mu.Unlock()
	return r
}

// awaitReady waits for the redirect armed by expectReady without writing
// anything. The banner is echoed to the session output.
func (s *Session) awaitReady(ctx context.Context, r *redirect, timeout time.Duration) error {
	defer s.release()

	banner, err := s.await(ctx, r, timeout)
	if err != nil {
		return err
	}
	if banner != "" {
		_, _ = fmt.Fprintln(s.output, banner)
	}
	return nil
}

func (s *Session) budget(opts RequestOptions) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	return s.timeout
}

func (s *Session) install(r *redirect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return fmt.Errorf("session %s: %w", s.info.ID, domain.ErrSessionClosed)
	}
	s.pending = r
	return nil
}

func (s *Session) await(ctx context.Context, r *redirect, budget time.Duration) (string, error) {
	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case <-r.done:
	case <-timer.C:
		s.abandon(r, stateTimedOut, fmt.Errorf("session %s after %s: %w", s.info.ID, budget, domain.ErrResponseTimeout))
	case <-ctx.Done():
		s.abandon(r, stateFailed, ctx.Err())
	}

	s.mu.Lock()
	result, err, state := r.result, r.err, r.state
	s.mu.Unlock()

	switch state {
	case stateCaptured:
		s.record(ctx, ports.DirectionResponse, result)
		return result, nil
	case stateTimedOut:
		s.logger.Warn("response timeout", zap.Duration("budget", budget))
	}
	return "", err
}

// abandon drops the pending redirect. A redirect that completed in the
// meantime keeps its outcome.
func (s *Session) abandon(r *redirect, state redirectState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == r {
		s.pending = nil
	}
	r.finish(state, "", err)
}

// deliver routes one chunk of evaluator output: into the pending redirect
// when there is one, to the session output otherwise.
func (s *Session) deliver(chunk []byte) {
	s.mu.Lock()
	if r := s.pending; r != nil {
		if head, ok := r.reply.feed(chunk, s.patterns); ok {
			s.pending = nil
			r.finish(stateCaptured, sliceReply(head, r.begin, r.end), nil)
		}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if _, err := s.output.Write(chunk); err != nil {
		s.logger.Debug("write session output", zap.Error(err))
	}
}

// replyScanner accumulates redirected output with sub-prompts removed. Prompts
// never span lines, so each chunk only rescans the lines it touched.
type replyScanner struct {
	lines   strings.Builder
	partial string
}

// feed appends chunk and, once a prompt has been seen, returns everything
// before it.
func (sc *replyScanner) feed(chunk []byte, patterns domain.Patterns) (string, bool) {
	from := sc.lines.Len()
	raw := sc.partial + string(chunk)
	if i := strings.LastIndexByte(raw, '\n'); i >= 0 {
		sc.lines.WriteString(stripSubPrompts(raw[:i+1], patterns))
		raw = raw[i+1:]
	}
	sc.partial = raw

	done := sc.lines.String()
	window := done[from:] + stripSubPrompts(sc.partial, patterns)
	loc := patterns.Prompt.FindStringIndex(window)
	if loc == nil {
		return "", false
	}
	return done[:from] + window[:loc[0]], true
}

func stripSubPrompts(text string, patterns domain.Patterns) string {
	if patterns.SubPrompt == nil || text == "" {
		return text
	}
	return patterns.SubPrompt.ReplaceAllString(text, "")
}

// sliceReply narrows head to the span from the first begin match to the end
// of the last end match.
func sliceReply(head string, begin, end *regexp.Regexp) string {
	start := 0
	if begin != nil {
		if m := begin.FindStringIndex(head); m != nil {
			start = m[0]
		}
	}

	stop := len(head)
	if end != nil {
		if matches := end.FindAllStringIndex(head[start:], -1); len(matches) > 0 {
			stop = start + matches[len(matches)-1][1]
		}
	}

	return strings.TrimRight(head[start:stop], "\r\n")
}
