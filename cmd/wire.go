package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/adapters/channel"
	"github.com/pilisp/emacs-inf-pilisp/internal/adapters/exchangelog"
	boltstore "github.com/pilisp/emacs-inf-pilisp/internal/adapters/history/bolt"
	sessionsadapter "github.com/pilisp/emacs-inf-pilisp/internal/adapters/render/sessions"
	tomlrepo "github.com/pilisp/emacs-inf-pilisp/internal/adapters/repo/toml"
	yamlrepo "github.com/pilisp/emacs-inf-pilisp/internal/adapters/repo/yaml"
	"github.com/pilisp/emacs-inf-pilisp/internal/adapters/ui/terminal"
	"github.com/pilisp/emacs-inf-pilisp/internal/application"
	"github.com/pilisp/emacs-inf-pilisp/internal/config"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

type dialectStore interface {
	ports.DialectRepository
	Path() string
}

// globalOptions are the persistent root flags.
type globalOptions struct {
	configFile string
	verbose    bool
	quiet      bool
	timeout    time.Duration
}

// wireOptions say which parts of the app a command needs.
type wireOptions struct {
	// interactive sends evaluator output and prompts to stdout instead of
	// stderr.
	interactive bool
	history     bool
}

type app struct {
	opts *globalOptions

	settings    config.Settings
	logger      *zap.Logger
	terminal    *terminal.Terminal
	dialects    *application.Dialects
	dialectRepo dialectStore
	registry    *application.Registry
	sessions    *application.SessionService
	service     *application.Service

	stdout io.Writer
	stderr io.Writer

	sessionRenderer func([]application.SessionStatus, sessionsadapter.RenderOptions) (string, error)
	dialectRenderer func([]domain.Dialect, bool) (string, error)
	now             func() time.Time

	closers []func() error
}

func newApp(opts *globalOptions) *app {
	return &app{
		opts:            opts,
		sessionRenderer: sessionsadapter.Render,
		dialectRenderer: sessionsadapter.RenderDialects,
		now:             time.Now,
	}
}

// runE wires the app for one command and tears it down afterwards, whatever
// the command returned.
func (a *app) runE(wopts wireOptions, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.wire(cmd, wopts); err != nil {
			return errors.Join(err, a.close())
		}
		defer func() {
			err = errors.Join(err, a.close())
		}()
		return run(cmd, args)
	}
}

func (a *app) wire(cmd *cobra.Command, wopts wireOptions) error {
	v := viper.New()
	settings, err := config.Load(v, a.opts.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		settings.RequestTimeout = a.opts.timeout
	}
	a.settings = settings
	a.stdout = &lockedWriter{w: cmd.OutOrStdout()}
	a.stderr = &lockedWriter{w: cmd.ErrOrStderr()}
	a.logger = newLogger(a.stderr, a.opts.verbose, a.opts.quiet)

	out := a.stderr
	if wopts.interactive {
		out = a.stdout
	}
	a.terminal = terminal.New(cmd.InOrStdin(), out)

	repo, err := newDialectStore(v, settings.DialectsPath)
	if err != nil {
		return fmt.Errorf("wire dialect repository: %w", err)
	}
	a.dialectRepo = repo

	builtin, err := tomlrepo.Builtin()
	if err != nil {
		return fmt.Errorf("load built-in dialects: %w", err)
	}
	a.dialects, err = application.NewDialects(builtin...)
	if err != nil {
		return fmt.Errorf("load built-in dialects: %w", err)
	}
	if _, err := a.dialects.Load(cmd.Context(), repo); err != nil {
		return fmt.Errorf("load dialects from %s: %w", repo.Path(), err)
	}

	var history ports.HistoryStore
	if wopts.history && settings.HistoryEnabled {
		store, err := boltstore.Open(settings.HistoryPath)
		if err != nil {
			a.logger.Warn("history disabled", zap.String("path", settings.HistoryPath), zap.Error(err))
		} else {
			history = store
			a.closers = append(a.closers, store.Close)
		}
	}

	exchanges, closeExchanges, err := newExchangeLog(settings, a.logger)
	if err != nil {
		return fmt.Errorf("wire exchange log: %w", err)
	}
	if closeExchanges != nil {
		a.closers = append(a.closers, closeExchanges)
	}

	a.registry = application.NewRegistry(a.terminal)
	a.sessions = application.NewSessionService(a.dialects, a.registry, application.SessionConfig{
		Factory:        channel.NewFactory(a.logger),
		Prompter:       a.terminal,
		Exchanges:      exchanges,
		Logger:         a.logger,
		Output:         out,
		RequestTimeout: settings.RequestTimeout,
		StartupTimeout: settings.StartupTimeout,
	})
	a.service = application.NewService(a.registry, a.dialects, history, ports.SystemClock{}, a.logger)

	return nil
}

// close kills every session before releasing the stores they write to.
func (a *app) close() error {
	var errs []error
	if a.sessions != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		errs = append(errs, a.sessions.Shutdown(ctx))
		cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

func newDialectStore(v *viper.Viper, path string) (dialectStore, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlrepo.NewRepository(path)
	default:
		v.Set(tomlrepo.PathKey, path)
		return tomlrepo.NewRepository(v)
	}
}

func newLogger(w io.Writer, verbose, quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)

	return zap.New(core)
}

// lockedWriter lets evaluator output, prompts and command results share one
// stream.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// newExchangeLog picks where raw traffic goes. An empty log.path sends it to
// the diagnostic logger, where it shows up with --verbose, and leaves nothing
// to close.
func newExchangeLog(settings config.Settings, logger *zap.Logger) (ports.ExchangeLog, func() error, error) {
	if !settings.LogExchanges {
		return ports.NopExchangeLog{}, nil, nil
	}
	if settings.LogPath == "" {
		return exchangelog.New(logger.Named("exchange")), nil, nil
	}
	log, err := exchangelog.Open(settings.LogPath)
	if err != nil {
		return nil, nil, err
	}
	return log, log.Close, nil
}
