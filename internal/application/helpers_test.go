package application

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func testDialect() domain.Dialect {
	return domain.Dialect{
		ID:            "pil",
		Command:       []string{"pil", "+"},
		Prompt:        `pl> `,
		SubPrompt:     `\.\.> `,
		HistoryFilter: `^:\w+$`,
		Features: map[domain.Feature]string{
			domain.FeatureDoc:        "(doc '%s)",
			domain.FeatureArglists:   "(arglist '%s)",
			domain.FeatureCompletion: `(complete "%s")`,
		},
	}
}

func otherDialect() domain.Dialect {
	return domain.Dialect{
		ID:     "clojure",
		Prompt: `\S+=> `,
		Features: map[domain.Feature]string{
			domain.FeatureDoc:         "(clojure.repl/doc %s)",
			domain.FeatureMacroexpand: "(macroexpand '%s)",
		},
	}
}

// fakeChannel answers every write through respond, delivering each returned
// chunk from a separate goroutine the way a reader loop would.
type fakeChannel struct {
	output  ports.OutputFunc
	respond func(input string) []string

	mu     sync.Mutex
	writes []string

	wg   sync.WaitGroup
	once sync.Once
	done chan struct{}
}

func newFakeChannel(output ports.OutputFunc, respond func(string) []string) *fakeChannel {
	return &fakeChannel{output: output, respond: respond, done: make(chan struct{})}
}

func (c *fakeChannel) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.writes = append(c.writes, string(p))
	c.mu.Unlock()

	if c.respond == nil {
		return len(p), nil
	}
	chunks := c.respond(string(p))
	if len(chunks) == 0 {
		return len(p), nil
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for _, chunk := range chunks {
			c.output([]byte(chunk))
		}
	}()
	return len(p), nil
}

func (c *fakeChannel) Alive() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *fakeChannel) Kill() error {
	c.once.Do(func() {
		c.wg.Wait()
		close(c.done)
	})
	return nil
}

func (c *fakeChannel) Done() <-chan struct{} {
	return c.done
}

func (c *fakeChannel) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

// reply answers every input with the same text.
func reply(text ...string) func(string) []string {
	return func(string) []string { return text }
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testSession struct {
	*Session
	channel *fakeChannel
	output  *syncBuffer
}

func newTestSession(t *testing.T, id domain.SessionID, dialect domain.Dialect, respond func(string) []string) testSession {
	t.Helper()

	output := &syncBuffer{}
	session, err := newSession(domain.SessionInfo{ID: id, Name: string(id)}, dialect, sessionConfig{
		output:  output,
		timeout: 2 * time.Second,
	})
	require.NoError(t, err)

	channel := newFakeChannel(session.deliver, respond)
	session.attach(channel)
	t.Cleanup(func() { _ = session.Kill() })

	return testSession{Session: session, channel: channel, output: output}
}

func newTestRegistry(t *testing.T, selector ports.SessionSelector, sessions ...testSession) *Registry {
	t.Helper()

	registry := NewRegistry(selector)
	for _, session := range sessions {
		registry.Add(session.Session)
	}
	return registry
}
