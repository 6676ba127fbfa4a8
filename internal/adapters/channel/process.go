package channel

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
)

// openProcess runs the evaluator with plain pipes. Stdout and stderr share
// one pipe so their interleaving survives.
func (f *Factory) openProcess(_ context.Context, endpoint domain.Endpoint, output ports.OutputFunc) (ports.Channel, error) {
	cmd := exec.Command(endpoint.Args[0], endpoint.Args[1:]...)
	cmd.Dir = endpoint.Dir
	cmd.Env = append(os.Environ(), "TERM=dumb")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("output pipe: %w", err)
	}
	cmd.Stdout = writer
	cmd.Stderr = writer

	if err := cmd.Start(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		_ = stdin.Close()
		return nil, fmt.Errorf("start %s: %w", endpoint.Args[0], err)
	}
	_ = writer.Close()

	s := newStream(stdin, cmd.Process.Kill, f.logger.With(zapEndpoint(endpoint), zapPID(cmd.Process.Pid)), f.killTimeout)
	s.run(reader, output, func() error {
		defer reader.Close()
		return cmd.Wait()
	})
	return s, nil
}
