package channel

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
)

const readBufferSize = 32 * 1024

// stream is the transport-neutral half of a channel: one writer towards the
// evaluator, one reader goroutine delivering its output, and a stop function
// that makes the reader return.
type stream struct {
	in          io.WriteCloser
	stop        func() error
	logger      *zap.Logger
	killTimeout time.Duration

	writeMu sync.Mutex
	alive   atomic.Bool
	done    chan struct{}
}

var _ ports.Channel = (*stream)(nil)

func newStream(in io.WriteCloser, stop func() error, logger *zap.Logger, killTimeout time.Duration) *stream {
	s := &stream{
		in:          in,
		stop:        stop,
		logger:      logger,
		killTimeout: killTimeout,
		done:        make(chan struct{}),
	}
	s.alive.Store(true)
	return s
}

// run pumps r into output until it ends, then calls wait (when set) and
// marks the stream dead.
func (s *stream) run(r io.Reader, output ports.OutputFunc, wait func() error) {
	go func() {
		defer close(s.done)

		if err := pump(r, output); err != nil {
			s.logger.Debug("read evaluator output", zap.Error(err))
		}
		s.alive.Store(false)

		if wait != nil {
			if err := wait(); err != nil {
				s.logger.Debug("evaluator exited", zap.Error(err))
				return
			}
		}
		s.logger.Debug("evaluator exited")
	}()
}

func (s *stream) Write(p []byte) (int, error) {
	if !s.alive.Load() {
		return 0, io.ErrClosedPipe
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.in.Write(p)
}

func (s *stream) Alive() bool {
	return s.alive.Load()
}

func (s *stream) Done() <-chan struct{} {
	return s.done
}

// Kill stops the evaluator and waits for its output to drain. Killing a dead
// channel is a no-op.
func (s *stream) Kill() error {
	select {
	case <-s.done:
		return nil
	default:
	}

	s.alive.Store(false)
	err := s.stop()
	if errors.Is(err, os.ErrProcessDone) || errors.Is(err, net.ErrClosed) {
		err = nil
	}
	_ = s.in.Close()

	select {
	case <-s.done:
	case <-time.After(s.killTimeout):
		return errors.Join(err, fmt.Errorf("evaluator did not exit within %s", s.killTimeout))
	}
	return err
}

func pump(r io.Reader, output ports.OutputFunc) error {
	buf := make([]byte, readBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			output(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, net.ErrClosed) || errors.Is(err, syscall.EIO) {
				return nil
			}
			return err
		}
	}
}
