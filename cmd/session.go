package cmd

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pilisp/emacs-inf-pilisp/internal/application"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/spf13/cobra"
)

// sessionFlags describe the evaluator a command starts.
type sessionFlags struct {
	dialect   string
	command   string
	connect   string
	transport string
	dir       string
	project   string
	noWait    bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dialect, "dialect", "d", "", "Dialect of the evaluator (default from config)")
	cmd.Flags().StringVarP(&f.command, "command", "c", "", "Command line that starts the evaluator")
	cmd.Flags().StringVar(&f.connect, "connect", "", "Connect to a socket REPL at host:port instead of starting a process")
	cmd.Flags().StringVar(&f.transport, "transport", "", "Local transport: process or pty (default from config)")
	cmd.Flags().StringVar(&f.dir, "dir", "", "Working directory of the evaluator")
	cmd.Flags().StringVar(&f.project, "project", "", "Project label shown next to the session")
	cmd.Flags().BoolVar(&f.noWait, "no-wait", false, "Do not wait for the first prompt")
	cmd.MarkFlagsMutuallyExclusive("command", "connect")
}

func (f *sessionFlags) startCommand(a *app) (application.StartCommand, error) {
	dialect := a.settings.Dialect
	if f.dialect != "" {
		dialect = domain.DialectID(f.dialect)
	}

	endpoint, err := f.endpoint(a.settings.Transport)
	if err != nil {
		return application.StartCommand{}, err
	}

	project := f.project
	if project == "" && f.dir != "" {
		project = filepath.Base(filepath.Clean(f.dir))
	}

	return application.StartCommand{
		Dialect:       dialect,
		Endpoint:      endpoint,
		Project:       project,
		SkipReadyWait: f.noWait,
	}, nil
}

func (f *sessionFlags) endpoint(fallback domain.Transport) (domain.Endpoint, error) {
	if f.connect != "" {
		return parseSocketAddress(f.connect)
	}

	transport := fallback
	if f.transport != "" {
		transport = domain.Transport(f.transport)
	}
	if transport == domain.TransportSocket {
		return domain.Endpoint{}, fmt.Errorf("socket transport requires --connect host:port")
	}

	return domain.Endpoint{
		Transport: transport,
		Args:      strings.Fields(f.command),
		Dir:       f.dir,
	}, nil
}

func parseSocketAddress(raw string) (domain.Endpoint, error) {
	host, rawPort, err := net.SplitHostPort(strings.TrimSpace(raw))
	if err != nil {
		return domain.Endpoint{}, fmt.Errorf("invalid socket address %q: %w", raw, err)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return domain.Endpoint{}, fmt.Errorf("invalid socket port %q", rawPort)
	}
	if host == "" {
		host = "localhost"
	}

	return domain.Endpoint{Transport: domain.TransportSocket, Host: host, Port: port}, nil
}

func startSession(cmd *cobra.Command, a *app, flags *sessionFlags) (*application.Session, error) {
	start, err := flags.startCommand(a)
	if err != nil {
		return nil, err
	}
	session, err := a.sessions.Start(cmd.Context(), start)
	if err != nil {
		return nil, fmt.Errorf("start %s session: %w", start.Dialect, err)
	}
	return session, nil
}
