package application

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStripsPromptAndTrailingNewline(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), reply("42\npl> "))

	got, err := session.Request(context.Background(), "(+ 1 1)", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "42", got)
	assert.Equal(t, []string{"(+ 1 1)\n"}, session.channel.Writes())
}

func TestRequestNarrowsToDelimitedList(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), reply("before (1 2 3) after\npl> "))

	got, err := session.Request(context.Background(), "(list 1 2 3)", ListRequest())
	require.NoError(t, err)
	assert.Equal(t, "(1 2 3)", got)
}

func TestRequestAssemblesPromptSplitAcrossChunks(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), reply("4", "2\np", "l> "))

	got, err := session.Request(context.Background(), "(* 6 7)", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestRequestStripsSubPrompts(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), reply("..> ..> 6\npl> "))

	got, err := session.Request(context.Background(), "(+ 1\n2\n3)", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "6", got)
}

func TestRequestSkipsBlankInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\n\t \n"} {
		session := newTestSession(t, "s1", testDialect(), reply("never\npl> "))

		got, err := session.Request(context.Background(), input, RequestOptions{})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Empty(t, session.channel.Writes())
	}
}

func TestRequestTimesOutWithinBudget(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), reply("still thinking"))
	budget := 50 * time.Millisecond

	started := time.Now()
	got, err := session.Request(context.Background(), "(loop)", RequestOptions{Timeout: budget})
	elapsed := time.Since(started)

	require.ErrorIs(t, err, domain.ErrResponseTimeout)
	assert.Empty(t, got)
	assert.GreaterOrEqual(t, elapsed, budget)
	assert.Less(t, elapsed, 2*time.Second)
	assert.True(t, session.Alive())
}

func TestRequestAfterTimeoutStartsClean(t *testing.T) {
	t.Parallel()

	calls := 0
	session := newTestSession(t, "s1", testDialect(), func(string) []string {
		calls++
		if calls == 1 {
			return nil
		}
		return []string{"ok\npl> "}
	})

	_, err := session.Request(context.Background(), "(slow)", RequestOptions{Timeout: 20 * time.Millisecond})
	require.ErrorIs(t, err, domain.ErrResponseTimeout)

	got, err := session.Request(context.Background(), "(fast)", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestRequestFailsWhenSessionIsKilled(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), nil)

	errs := make(chan error, 1)
	go func() {
		_, err := session.Request(context.Background(), "(read)", RequestOptions{Timeout: 5 * time.Second})
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(session.channel.Writes()) == 1 }, time.Second, time.Millisecond)
	require.NoError(t, session.Kill())

	select {
	case err := <-errs:
		require.ErrorIs(t, err, domain.ErrSessionClosed)
	case <-time.After(time.Second):
		t.Fatal("request did not fail after kill")
	}
	assert.False(t, session.Alive())

	_, err := session.Request(context.Background(), "(+ 1 1)", RequestOptions{})
	require.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestRequestHonoursContextCancellation(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := session.Request(ctx, "(read)", RequestOptions{Timeout: 5 * time.Second})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestsToOneSessionAreSerialized(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), func(input string) []string {
		return []string{input, "pl> "}
	})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := session.Request(context.Background(), string(rune('a'+i)), RequestOptions{})
			assert.NoError(t, err)
			results[i] = got
		}()
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, string(rune('a'+i)), got)
	}
}

func TestUnredirectedOutputGoesToSessionOutput(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, "s1", testDialect(), reply("hello\npl> "))

	require.NoError(t, session.Send(context.Background(), "(prinl \"hello\")  "))
	require.Eventually(t, func() bool { return session.output.String() == "hello\npl> " }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"(prinl \"hello\")\n"}, session.channel.Writes())
}

func TestReplyExtraction(t *testing.T) {
	t.Parallel()

	patterns, err := testDialect().Patterns()
	require.NoError(t, err)
	open := regexp.MustCompile(`\(`)
	closing := regexp.MustCompile(`\)`)

	tests := []struct {
		name   string
		text   string
		begin  *regexp.Regexp
		end    *regexp.Regexp
		want   string
		wantOK bool
	}{
		{name: "no prompt yet", text: "42\n", wantOK: false},
		{name: "plain", text: "42\npl> ", want: "42", wantOK: true},
		{name: "crlf", text: "42\r\npl> ", want: "42", wantOK: true},
		{name: "output after prompt dropped", text: "1\npl> 2\npl> ", want: "1", wantOK: true},
		{name: "nested list kept whole", text: "warn (a (b c) d) tail\npl> ", begin: open, end: closing, want: "(a (b c) d)", wantOK: true},
		{name: "missing begin falls back to start", text: "nil\npl> ", begin: open, end: closing, want: "nil", wantOK: true},
		{name: "sub-prompt removed", text: "..> x\npl> ", want: "x", wantOK: true},
		{name: "empty reply", text: "pl> ", want: "", wantOK: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var scanner replyScanner
			head, ok := scanner.feed([]byte(tc.text), patterns)
			assert.Equal(t, tc.wantOK, ok)
			if ok {
				assert.Equal(t, tc.want, sliceReply(head, tc.begin, tc.end))
			}
		})
	}
}

func TestReplyScannerAcrossChunks(t *testing.T) {
	t.Parallel()

	patterns, err := testDialect().Patterns()
	require.NoError(t, err)

	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{name: "prompt split", chunks: []string{"42\np", "l", "> "}, want: "42\n"},
		{name: "sub-prompt split", chunks: []string{".", ".> 1\n", "..> 2\npl> "}, want: "1\n2\n"},
		{name: "line split", chunks: []string{"a b", " c\n", "pl> "}, want: "a b c\n"},
		{name: "prompt on later line", chunks: []string{"x\ny\n", "z\npl> 9"}, want: "x\ny\nz\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var scanner replyScanner
			for i, chunk := range tc.chunks {
				head, ok := scanner.feed([]byte(chunk), patterns)
				if i < len(tc.chunks)-1 {
					require.False(t, ok, "prompt seen after chunk %d", i)
					continue
				}
				require.True(t, ok)
				assert.Equal(t, tc.want, head)
			}
		})
	}
}

func TestClojureSubPromptKeepsBlankLines(t *testing.T) {
	t.Parallel()

	patterns, err := domain.Dialect{
		ID:        "clojure",
		Command:   []string{"clojure"},
		Prompt:    `(?m)^[^\s=>]+=> `,
		SubPrompt: `(?m)^[ \t]*#_=> `,
	}.Patterns()
	require.NoError(t, err)

	var scanner replyScanner
	head, ok := scanner.feed([]byte("a\n\n  #_=> b\nuser=> "), patterns)
	require.True(t, ok)
	assert.Equal(t, "a\n\nb\n", head)
}

func TestRedirectStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "awaiting-prompt", stateAwaitingPrompt.String())
	assert.Equal(t, "timed-out", stateTimedOut.String())
	assert.Equal(t, "redirectState(42)", redirectState(42).String())
}
