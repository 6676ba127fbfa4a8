package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pilisp/emacs-inf-pilisp/internal/adapters/ui/terminal"
	"github.com/pilisp/emacs-inf-pilisp/internal/adapters/watch"
	"github.com/pilisp/emacs-inf-pilisp/internal/application"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metaPrefix = ","

var errQuitREPL = errors.New("quit repl")

func newReplCmd(app *app) *cobra.Command {
	flags := &sessionFlags{}
	var watchDialects bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive evaluator session",
		Long: "repl starts an evaluator and forwards each input line to it. Lines starting with " + metaPrefix +
			" are commands handled here; " + metaPrefix + "help lists them.",
		Args: cobra.NoArgs,
		RunE: app.runE(wireOptions{interactive: true, history: true}, func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if _, err := startSession(cmd, app, flags); err != nil {
				return err
			}

			if watchDialects {
				w := watch.New(app.dialectRepo.Path(), func(ctx context.Context) error {
					_, err := app.dialects.Load(ctx, app.dialectRepo)
					return err
				}, app.logger)
				if err := w.Start(ctx); err != nil {
					app.logger.Warn("dialects file not watched", zap.Error(err))
				} else {
					defer func() { _ = w.Stop() }()
				}
			}

			r := &repl{app: app, flags: flags, out: app.stdout, display: app.terminal}
			return r.run(ctx)
		}),
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&watchDialects, "watch-dialects", true, "Reload the dialects file when it changes")

	return cmd
}

type repl struct {
	app     *app
	flags   *sessionFlags
	out     io.Writer
	display ports.Display
}

type lineResult struct {
	line string
	err  error
}

// lineReader reads one line per request so that prompts issued by comma
// commands never race the REPL for input.
type lineReader struct {
	next  chan struct{}
	lines chan lineResult
	stop  chan struct{}
}

func newLineReader(t *terminal.Terminal) *lineReader {
	r := &lineReader{
		next:  make(chan struct{}, 1),
		lines: make(chan lineResult),
		stop:  make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-r.next:
			case <-r.stop:
				return
			}

			line, err := t.ReadLine()
			select {
			case r.lines <- lineResult{line: line, err: err}:
			case <-r.stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	return r
}

func (r *repl) run(ctx context.Context) error {
	reader := newLineReader(r.app.terminal)
	defer close(reader.stop)

	for {
		reader.next <- struct{}{}

		in, ok, err := r.waitLine(ctx, reader)
		if !ok {
			return err
		}
		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", in.err)
		}

		if err := r.handle(ctx, in.line); err != nil {
			if errors.Is(err, errQuitREPL) {
				return nil
			}
			r.report(err)
		}
	}
}

// waitLine returns ok == false once the REPL should stop: the context ended
// or the last live session went away.
func (r *repl) waitLine(ctx context.Context, reader *lineReader) (lineResult, bool, error) {
	for {
		select {
		case <-ctx.Done():
			return lineResult{}, false, nil
		case <-r.sessionGone():
			if len(r.app.registry.Live()) == 0 {
				_, err := fmt.Fprintln(r.out, "evaluator exited")
				return lineResult{}, false, err
			}
		case in := <-reader.lines:
			return in, true, nil
		}
	}
}

// sessionGone fires when the active session dies. It is nil while another
// live session can take over.
func (r *repl) sessionGone() <-chan struct{} {
	if session := r.app.registry.Active(); session != nil {
		return session.Done()
	}
	if len(r.app.registry.Live()) == 0 {
		gone := make(chan struct{})
		close(gone)
		return gone
	}
	return nil
}

func (r *repl) report(err error) {
	_, _ = fmt.Fprintf(r.out, "error: %s\n", terminal.Sanitize(err.Error()))
}

func (r *repl) handle(ctx context.Context, line string) error {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, metaPrefix) {
		return r.app.service.Send(ctx, "", line)
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(trimmed, metaPrefix), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "help":
		return r.help()
	case "exit":
		return errQuitREPL
	case "quit":
		return r.quit(ctx)
	case "sessions":
		return writeSessionsOutput(r.out, r.app, false)
	case "start":
		return r.start(ctx, arg)
	case "use":
		return r.use(arg)
	case "restart":
		return r.restart(ctx)
	case "dialect":
		return r.setDialect(ctx, arg)
	case "history":
		return r.history(ctx, arg)
	}

	l, ok := findLookup(name)
	if !ok {
		return fmt.Errorf("unknown command %s%s, try %shelp", metaPrefix, name, metaPrefix)
	}
	if arg == "" {
		return fmt.Errorf("%s%s needs %s", metaPrefix, l.name, l.arg)
	}

	result, err := l.run(ctx, r.app.service, arg)
	if err != nil {
		return err
	}
	if !result.Supported {
		session, err := r.app.registry.Resolve(ctx, "")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(r.out, "%s is not supported by dialect %s\n", l.feature, session.Dialect())
		return err
	}
	return r.show(ctx, l, arg, result.Text)
}

func (r *repl) show(ctx context.Context, l lookup, arg, text string) error {
	if text == "" {
		return nil
	}
	return r.display.Show(ctx, l.name+" "+arg, text)
}

func (r *repl) help() error {
	lines := []string{
		",start DIALECT [COMMAND...]  start another session",
		",sessions                    list sessions",
		",use N|NAME                  make a session the active one",
		",restart                     restart the active session",
		",dialect DIALECT             talk to the active session as another dialect",
		",quit                        stop the active session",
		",history [N]                 show recent input",
		",exit                        leave, stopping every session",
	}
	for _, l := range lookups {
		lines = append(lines, fmt.Sprintf("%-29s%s", fmt.Sprintf(",%s %s", l.name, l.arg), strings.ToLower(l.short[:1])+l.short[1:]))
	}
	sort.Strings(lines)

	_, err := fmt.Fprintln(r.out, strings.Join(lines, "\n"))
	return err
}

func (r *repl) quit(ctx context.Context) error {
	session, err := r.app.registry.Resolve(ctx, "")
	if err != nil {
		return err
	}
	if err := r.app.sessions.Quit(ctx, session.ID()); err != nil {
		return err
	}
	if len(r.app.registry.Live()) == 0 {
		return errQuitREPL
	}
	return nil
}

func (r *repl) start(ctx context.Context, arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return fmt.Errorf("%sstart needs DIALECT", metaPrefix)
	}

	transport := r.app.settings.Transport
	if r.flags.transport != "" {
		transport = domain.Transport(r.flags.transport)
	}
	if transport == domain.TransportSocket {
		transport = domain.TransportProcess
	}

	_, err := r.app.sessions.Start(ctx, application.StartCommand{
		Dialect:  domain.DialectID(fields[0]),
		Endpoint: domain.Endpoint{Transport: transport, Args: fields[1:], Dir: r.flags.dir},
		Project:  r.flags.project,
	})
	return err
}

func (r *repl) use(arg string) error {
	statuses := r.app.registry.Statuses()

	if index, err := strconv.Atoi(arg); err == nil {
		if index < 1 || index > len(statuses) {
			return fmt.Errorf("no session %d", index)
		}
		return r.app.registry.SetActive(statuses[index-1].Info.ID)
	}

	for _, status := range statuses {
		if status.Info.Name == arg || string(status.Info.ID) == arg {
			return r.app.registry.SetActive(status.Info.ID)
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrSessionNotFound, arg)
}

func (r *repl) restart(ctx context.Context) error {
	session, err := r.app.registry.Resolve(ctx, "")
	if err != nil {
		return err
	}
	_, err = r.app.sessions.Restart(ctx, session.ID())
	return err
}

func (r *repl) setDialect(ctx context.Context, arg string) error {
	if arg == "" {
		return fmt.Errorf("%sdialect needs DIALECT", metaPrefix)
	}
	session, err := r.app.registry.Resolve(ctx, "")
	if err != nil {
		return err
	}
	return r.app.sessions.SetDialect(ctx, session.ID(), domain.DialectID(arg))
}

func (r *repl) history(ctx context.Context, arg string) error {
	limit := 20
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid history size %q", arg)
		}
		limit = n
	}

	entries, err := r.app.service.History(ctx, limit)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(r.out, "%5d  %s\n", entry.Seq, terminal.Sanitize(entry.Input)); err != nil {
			return err
		}
	}
	return nil
}
