package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestRecordsExchanges(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(at)

	exchanges := mocks.NewMockExchangeLog(t)
	exchanges.EXPECT().Record(mock.Anything, ports.Exchange{
		Session: "s1", Dialect: "pil", Direction: ports.DirectionRequest, Text: "(+ 1 1)\n", At: at,
	}).Return(nil).Once()
	exchanges.EXPECT().Record(mock.Anything, ports.Exchange{
		Session: "s1", Dialect: "pil", Direction: ports.DirectionResponse, Text: "2", At: at,
	}).Return(nil).Once()

	session, err := newSession(domain.SessionInfo{ID: "s1", Name: "pil"}, testDialect(), sessionConfig{
		exchanges: exchanges,
		clock:     clock,
		timeout:   2 * time.Second,
	})
	require.NoError(t, err)
	session.attach(newFakeChannel(session.deliver, reply("2\npl> ")))
	t.Cleanup(func() { _ = session.Kill() })

	got, err := session.Request(context.Background(), "(+ 1 1)", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestExchangeLogFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	exchanges := mocks.NewMockExchangeLog(t)
	exchanges.EXPECT().Record(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	core, logs := observer.New(zap.WarnLevel)
	session, err := newSession(domain.SessionInfo{ID: "s1", Name: "pil"}, testDialect(), sessionConfig{
		exchanges: exchanges,
		logger:    zap.New(core),
		timeout:   2 * time.Second,
	})
	require.NoError(t, err)
	session.attach(newFakeChannel(session.deliver, reply("2\npl> ")))
	t.Cleanup(func() { _ = session.Kill() })

	got, err := session.Request(context.Background(), "(+ 1 1)", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, 2, logs.FilterMessage("record exchange").Len())
}
