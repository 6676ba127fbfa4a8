package domain

import (
	"fmt"
	"net"
	"strings"
	"time"
)

type SessionID string

type Transport string

const (
	TransportProcess Transport = "process"
	TransportPTY     Transport = "pty"
	TransportSocket  Transport = "socket"
)

// Endpoint says how to reach an evaluator: an argument vector for local
// transports, host and port for sockets.
type Endpoint struct {
	Transport Transport
	Args      []string
	Dir       string
	Host      string
	Port      int
}

func (e Endpoint) Validate() error {
	switch e.Transport {
	case TransportProcess, TransportPTY:
		if len(e.Args) == 0 || strings.TrimSpace(e.Args[0]) == "" {
			return fmt.Errorf("%s transport requires a command", e.Transport)
		}
	case TransportSocket:
		if strings.TrimSpace(e.Host) == "" {
			return fmt.Errorf("socket transport requires a host")
		}
		if e.Port <= 0 || e.Port > 65535 {
			return fmt.Errorf("socket transport: invalid port %d", e.Port)
		}
	default:
		return fmt.Errorf("unsupported transport %q", e.Transport)
	}

	return nil
}

func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, fmt.Sprint(e.Port))
}

func (e Endpoint) String() string {
	if e.Transport == TransportSocket {
		return e.Address()
	}
	return strings.Join(e.Args, " ")
}

// SessionInfo is the descriptive part of a session.
type SessionInfo struct {
	ID        SessionID
	Name      string
	Dialect   DialectID
	Endpoint  Endpoint
	Project   string
	CreatedAt time.Time
}

func (i SessionInfo) Label() string {
	if i.Project == "" {
		return fmt.Sprintf("%s [%s]", i.Name, i.Dialect)
	}
	return fmt.Sprintf("%s [%s] %s", i.Name, i.Dialect, i.Project)
}
