package channel

import (
	"context"
	"fmt"
	"net"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
)

// openSocket connects to an evaluator already listening on a TCP socket
// (a socket REPL). Killing the channel only closes the connection.
func (f *Factory) openSocket(ctx context.Context, endpoint domain.Endpoint, output ports.OutputFunc) (ports.Channel, error) {
	dialer := net.Dialer{Timeout: f.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint.Address())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint.Address(), err)
	}

	s := newStream(conn, conn.Close, f.logger.With(zapEndpoint(endpoint)), f.killTimeout)
	s.run(conn, output, nil)
	return s, nil
}
