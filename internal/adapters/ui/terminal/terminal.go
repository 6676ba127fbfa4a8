package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
)

// Terminal implements the interactive hooks on a line-oriented terminal. All
// reads share one buffered reader so prompts and REPL input do not steal
// each other's bytes.
type Terminal struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	styled bool
	title  lipgloss.Style
	choice lipgloss.Style
}

var (
	_ ports.SessionSelector = (*Terminal)(nil)
	_ ports.ValuePrompter   = (*Terminal)(nil)
	_ ports.Display         = (*Terminal)(nil)
)

func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		styled: IsTerminal(out),
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		choice: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// ReadLine returns the next input line without its terminator. io.EOF is
// returned only once no more input remains.
func (t *Terminal) ReadLine() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLineLocked()
}

func (t *Terminal) readLineLocked() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// SelectSession lists candidates by number and reads a choice. An empty
// answer cancels.
func (t *Terminal) SelectSession(ctx context.Context, candidates []domain.SessionInfo) (domain.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, candidate := range candidates {
		_, _ = fmt.Fprintf(t.out, "%d) %s\n", i+1, Sanitize(candidate.Label()))
	}
	_, _ = fmt.Fprintf(t.out, "Select session [1-%d]: ", len(candidates))

	input, err := t.readLineLocked()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read session selection: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.ErrSelectionCancelled
	}

	choice, err := strconv.Atoi(input)
	if err != nil {
		for _, candidate := range candidates {
			if strings.EqualFold(candidate.Name, input) || string(candidate.ID) == input {
				return candidate.ID, nil
			}
		}
		return "", fmt.Errorf("invalid selection %q", input)
	}
	if choice < 1 || choice > len(candidates) {
		return "", fmt.Errorf("selection out of range: %d", choice)
	}

	return candidates[choice-1].ID, nil
}

// PromptValue reads one line, falling back to defaultValue when it is empty.
func (t *Terminal) PromptValue(ctx context.Context, label string, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if defaultValue != "" {
		_, _ = fmt.Fprintf(t.out, "%s %s: ", label, t.render(t.choice, "["+defaultValue+"]"))
	} else {
		_, _ = fmt.Fprintf(t.out, "%s: ", label)
	}

	input, err := t.readLineLocked()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", label, err)
	}

	if value := strings.TrimSpace(input); value != "" {
		return value, nil
	}
	return defaultValue, nil
}

func (t *Terminal) Show(ctx context.Context, title string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if title != "" {
		if _, err := fmt.Fprintln(t.out, t.render(t.title, title)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(t.out, text)
	return err
}

func (t *Terminal) render(style lipgloss.Style, text string) string {
	if !t.styled {
		return text
	}
	return style.Render(text)
}

// Sanitize drops control characters so evaluator-supplied labels cannot
// drive the terminal.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
