package ports

import (
	"context"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

type Direction string

const (
	DirectionRequest  Direction = "request"
	DirectionResponse Direction = "response"
)

type Exchange struct {
	Session   domain.SessionID
	Dialect   domain.DialectID
	Direction Direction
	Text      string
	At        time.Time
}

// ExchangeLog is a write-only side channel for raw protocol traffic.
type ExchangeLog interface {
	Record(ctx context.Context, exchange Exchange) error
}

type NopExchangeLog struct{}

func (NopExchangeLog) Record(context.Context, Exchange) error {
	return nil
}
