package application

import (
	"regexp"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

type StartCommand struct {
	Dialect  domain.DialectID
	Endpoint domain.Endpoint
	Name     string
	Project  string
	// SkipReadyWait starts the session without waiting for the first prompt,
	// for evaluators that stay silent until spoken to.
	SkipReadyWait bool
}

// RequestOptions narrow a captured response. Begin and End are optional;
// Timeout overrides the session default when positive.
type RequestOptions struct {
	Begin   *regexp.Regexp
	End     *regexp.Regexp
	Timeout time.Duration
}

var (
	listBegin = regexp.MustCompile(`\(`)
	listEnd   = regexp.MustCompile(`\)`)
)

// ListRequest isolates the parenthesized list in a reply.
func ListRequest() RequestOptions {
	return RequestOptions{Begin: listBegin, End: listEnd}
}
