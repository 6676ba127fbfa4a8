package channel

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/creack/pty"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"golang.org/x/term"
)

var ptySize = &pty.Winsize{Rows: 24, Cols: 200}

// openPTY runs the evaluator on a pseudo-terminal for programs that only
// prompt when attached to a tty. The terminal is put in raw mode so input is
// not echoed back into responses.
func (f *Factory) openPTY(_ context.Context, endpoint domain.Endpoint, output ports.OutputFunc) (ports.Channel, error) {
	cmd := exec.Command(endpoint.Args[0], endpoint.Args[1:]...)
	cmd.Dir = endpoint.Dir

	ptmx, err := pty.StartWithSize(cmd, ptySize)
	if err != nil {
		return nil, fmt.Errorf("start %s on pty: %w", endpoint.Args[0], err)
	}
	if _, err := term.MakeRaw(int(ptmx.Fd())); err != nil {
		killErr := cmd.Process.Kill()
		_ = cmd.Wait()
		_ = ptmx.Close()
		return nil, fmt.Errorf("raw mode: %w", errors.Join(err, killErr))
	}

	s := newStream(ptmx, cmd.Process.Kill, f.logger.With(zapEndpoint(endpoint), zapPID(cmd.Process.Pid)), f.killTimeout)
	s.run(ptmx, output, func() error {
		defer ptmx.Close()
		return cmd.Wait()
	})
	return s, nil
}
