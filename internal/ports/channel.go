package ports

import (
	"context"
	"io"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

// OutputFunc receives evaluator output in arrival order. It is called from a
// single goroutine per channel, and chunk is only valid during the call.
type OutputFunc func(chunk []byte)

// Channel is one live evaluator connection: a spawned process or a socket.
type Channel interface {
	io.Writer
	Alive() bool
	Kill() error
	// Done is closed once the evaluator has gone away and all output has
	// been delivered.
	Done() <-chan struct{}
}

type ChannelFactory interface {
	Open(ctx context.Context, endpoint domain.Endpoint, output OutputFunc) (Channel, error)
}
