package exchangelog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log appends every exchange as one JSON line. Nothing ever reads it back.
type Log struct {
	logger *zap.Logger
	file   *os.File
}

var _ ports.ExchangeLog = (*Log)(nil)

// Open appends to path, creating it and its directory when missing.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create exchange log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open exchange log: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), zapcore.InfoLevel)

	return &Log{logger: zap.New(core), file: file}, nil
}

// New records through an existing logger.
func New(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Record(_ context.Context, exchange ports.Exchange) error {
	l.logger.Info(string(exchange.Direction),
		zap.String("session", string(exchange.Session)),
		zap.String("dialect", string(exchange.Dialect)),
		zap.Time("at", exchange.At),
		zap.String("text", exchange.Text),
	)
	return nil
}

func (l *Log) Close() error {
	err := l.logger.Sync()
	if l.file == nil {
		return nil
	}
	return errors.Join(err, l.file.Close())
}
