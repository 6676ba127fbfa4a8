package channel

import (
	"context"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
)

const (
	defaultKillTimeout = 5 * time.Second
	defaultDialTimeout = 10 * time.Second
)

// Factory opens channels for every supported transport.
type Factory struct {
	logger      *zap.Logger
	killTimeout time.Duration
	dialTimeout time.Duration
}

var _ ports.ChannelFactory = (*Factory)(nil)

func NewFactory(logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		logger:      logger,
		killTimeout: defaultKillTimeout,
		dialTimeout: defaultDialTimeout,
	}
}

func (f *Factory) Open(ctx context.Context, endpoint domain.Endpoint, output ports.OutputFunc) (ports.Channel, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch endpoint.Transport {
	case domain.TransportPTY:
		return f.openPTY(ctx, endpoint, output)
	case domain.TransportSocket:
		return f.openSocket(ctx, endpoint, output)
	default:
		return f.openProcess(ctx, endpoint, output)
	}
}

func zapEndpoint(endpoint domain.Endpoint) zap.Field {
	return zap.Stringer("endpoint", endpoint)
}

func zapPID(pid int) zap.Field {
	return zap.Int("pid", pid)
}
