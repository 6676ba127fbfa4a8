package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeEvaluator = `#!/bin/sh
echo "fake pil 1.0"
printf ': '
while IFS= read -r line; do
  case "$line" in
    "(bye)") exit 0 ;;
    "(doc 'car)") printf 'Returns the first element of a list.\n' ;;
    "(+ 1 2)") printf '%s\n' '-> 3' ;;
    *) printf '%s\n' "$line" ;;
  esac
  printf ': '
done
`

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestEvalPrintsReplyWithoutPrompt(t *testing.T) {
	home := t.TempDir()

	stdout, stderr, err := executeCLI(t, home, "eval", "-d", "pil", "-c", evaluatorCommand(t, home), "(+", "1", "2)")
	require.NoError(t, err)
	assert.Equal(t, "-> 3\n", stdout)
	assert.Contains(t, stderr, "fake pil 1.0")
}

func TestEvalRecordsHistory(t *testing.T) {
	home := t.TempDir()
	command := evaluatorCommand(t, home)

	_, _, err := executeCLI(t, home, "eval", "-d", "pil", "-c", command, "(+ 1 2)")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "eval", "-d", "pil", "-c", command, "(bye)", "--timeout", "200ms")
	require.Error(t, err)

	stdout, _, err := executeCLI(t, home, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(+ 1 2)")
	assert.NotContains(t, stdout, "(bye)")
}

func TestEvalFromStdinRequiresCommand(t *testing.T) {
	_, _, err := executeCLIWithInput(t, t.TempDir(), strings.NewReader("(+ 1 2)"), "eval", "-d", "pil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--command or --connect is required")
}

func TestEvalPromptsForCommandWithDialectDefault(t *testing.T) {
	home := t.TempDir()
	command := evaluatorCommand(t, home)

	stdout, stderr, err := executeCLIWithInput(t, home, strings.NewReader(command+"\n"), "eval", "-d", "pil", "(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, "-> 3\n", stdout)
	assert.Contains(t, stderr, "Run pil [pil +]: ")
}

func TestEvalUnknownDialect(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "eval", "-d", "scheme", "-c", "true", "(+ 1 2)")
	require.ErrorIs(t, err, domain.ErrUnknownDialect)
}

func TestDocCommandPrintsDocumentation(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "doc", "-d", "pil", "-c", evaluatorCommand(t, home), "car")
	require.NoError(t, err)
	assert.Equal(t, "Returns the first element of a list.\n", stdout)
}

func TestUnsupportedFeatureIsReportedNotFailed(t *testing.T) {
	home := t.TempDir()

	stdout, stderr, err := executeCLI(t, home, "macroexpand", "-d", "pil", "-c", evaluatorCommand(t, home), "(when T 1)")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "macroexpand is not supported by dialect pil")
}

func TestDialectListShowsBuiltins(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "dialect", "list")
	require.NoError(t, err)
	for _, id := range []string{"pil", "clojure", "babashka"} {
		assert.Contains(t, stdout, id)
	}
}

func TestDialectAddThenShow(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"dialect", "add", "ersatz",
		"--from", "pil",
		"--prompt", "(?m)^ersatz> ",
		"--feature", "macroexpand=(macroexpand '%s)",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "saved dialect ersatz")
	assert.FileExists(t, filepath.Join(home, ".inf-pilisp", "dialects.toml"))

	stdout, _, err = executeCLI(t, home, "dialect", "show", "ersatz", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"Prompt": "(?m)^ersatz> "`)
	assert.Contains(t, stdout, `"macroexpand": "(macroexpand '%s)"`)
	assert.Contains(t, stdout, `"doc": "(doc '%s)"`)
}

func TestDialectSetOverridesTemplate(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "dialect", "set", "pil", "doc", "(help '%s)")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "dialect", "show", "pil", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"doc": "(help '%s)"`)
}

func TestDialectSetRejectsUnknownFeature(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "dialect", "set", "pil", "teleport", "x")
	require.EqualError(t, err, `unknown feature "teleport"`)
}

func TestDialectAddRejectsInvalidPrompt(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "dialect", "add", "broken", "--prompt", "(", "--feature", "doc=%s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile prompt")
	assert.NoFileExists(t, filepath.Join(home, ".inf-pilisp", "dialects.toml"))
}

func TestYAMLDialectsFileIsLoaded(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".inf-pilisp")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[dialects]\npath = \""+filepath.Join(dir, "dialects.yaml")+"\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dialects.yaml"), []byte(`dialects:
  - id: newlisp
    prompt: '(?m)^> '
    features:
      doc: '(help %s)'
`), 0o600))

	stdout, _, err := executeCLI(t, home, "dialect", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "newlisp")
}

func TestReplForwardsInputAndRunsMetaCommands(t *testing.T) {
	home := t.TempDir()

	stdin, input := io.Pipe()
	t.Cleanup(func() { _ = input.Close() })
	go func() {
		_, _ = io.WriteString(input, ",doc car\n,macroexpand (when T 1)\n,nope\n(+ 1 2)\n(bye)\n")
	}()

	stdout, _, err := executeCLIWithInput(t, home, stdin, "repl", "-d", "pil", "-c", evaluatorCommand(t, home), "--watch-dialects=false")
	require.NoError(t, err)

	assert.Contains(t, stdout, "fake pil 1.0")
	assert.Contains(t, stdout, "doc car\nReturns the first element of a list.\n")
	assert.Contains(t, stdout, "macroexpand is not supported by dialect pil")
	assert.Contains(t, stdout, "error: unknown command ,nope, try ,help")
	assert.Contains(t, stdout, "-> 3")
	assert.Contains(t, stdout, "evaluator exited")
}

func TestReplExitStopsSessions(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLIWithInput(t, home, strings.NewReader(",sessions\n,exit\n"), "repl", "-d", "pil", "-c", evaluatorCommand(t, home))
	require.NoError(t, err)
	assert.Contains(t, stdout, "REPL Sessions")
	assert.Contains(t, stdout, "pil [pil]")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, strings.NewReader(""), args...)
}

func executeCLIWithInput(t *testing.T, home string, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--quiet"}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func evaluatorCommand(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "fake-pil.sh")
	require.NoError(t, os.WriteFile(path, []byte(fakeEvaluator), 0o700))
	return "sh " + path
}
