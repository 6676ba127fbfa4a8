package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service runs feature requests against whichever session a caller targets.
// An empty target means "the active session".
type Service struct {
	registry *Registry
	dialects *Dialects
	history  ports.HistoryStore
	clock    ports.Clock
	logger   *zap.Logger
	arglists singleflight.Group
}

func NewService(registry *Registry, dialects *Dialects, history ports.HistoryStore, clock ports.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		registry: registry,
		dialects: dialects,
		history:  history,
		clock:    clock,
		logger:   logger,
	}
}

// Evaluate sends form and returns the captured reply.
func (s *Service) Evaluate(ctx context.Context, target domain.SessionID, form string) (string, error) {
	session, err := s.registry.Resolve(ctx, target)
	if err != nil {
		return "", err
	}

	s.remember(ctx, session, form)
	return session.Request(ctx, form, RequestOptions{})
}

// Send writes input without capturing the reply; it shows up on the session
// output instead.
func (s *Service) Send(ctx context.Context, target domain.SessionID, input string) error {
	session, err := s.registry.Resolve(ctx, target)
	if err != nil {
		return err
	}

	s.remember(ctx, session, input)
	return session.Send(ctx, input)
}

func (s *Service) Doc(ctx context.Context, target domain.SessionID, symbol string) (string, error) {
	return s.strict(ctx, target, domain.FeatureDoc, symbol)
}

func (s *Service) Source(ctx context.Context, target domain.SessionID, symbol string) (string, error) {
	return s.strict(ctx, target, domain.FeatureSource, symbol)
}

func (s *Service) LoadFile(ctx context.Context, target domain.SessionID, path string) (string, error) {
	return s.strict(ctx, target, domain.FeatureLoadFile, path)
}

func (s *Service) Apropos(ctx context.Context, target domain.SessionID, pattern string) (domain.Answer, error) {
	return s.permissive(ctx, target, domain.FeatureApropos, pattern)
}

// Macroexpand expands form fully, or by one step when once is set.
func (s *Service) Macroexpand(ctx context.Context, target domain.SessionID, form string, once bool) (domain.Answer, error) {
	feature := domain.FeatureMacroexpand
	if once {
		feature = domain.FeatureMacroexpand1
	}
	return s.permissive(ctx, target, feature, form)
}

// Reload reloads one namespace, or it and everything it depends on when all
// is set.
func (s *Service) Reload(ctx context.Context, target domain.SessionID, namespace string, all bool) (domain.Answer, error) {
	feature := domain.FeatureReload
	if all {
		feature = domain.FeatureReloadAll
	}
	return s.permissive(ctx, target, feature, namespace)
}

func (s *Service) SetNamespace(ctx context.Context, target domain.SessionID, namespace string) (domain.Answer, error) {
	return s.permissive(ctx, target, domain.FeatureSetNamespace, namespace)
}

func (s *Service) NamespaceVars(ctx context.Context, target domain.SessionID, namespace string) (domain.Answer, error) {
	return s.permissive(ctx, target, domain.FeatureNamespaceVar, namespace)
}

// Arglists returns the parameter list of symbol. Only the last symbol asked
// about is cached per session, and concurrent lookups of it share one
// request. A "nil" reply comes back as a supported answer with no text.
func (s *Service) Arglists(ctx context.Context, target domain.SessionID, symbol string) (domain.Answer, error) {
	session, err := s.registry.Resolve(ctx, target)
	if err != nil {
		return domain.Answer{}, err
	}

	template, ok, err := s.dialects.Template(session.Dialect(), domain.FeatureArglists, domain.LookupPermissive)
	if err != nil {
		return domain.Answer{}, err
	}
	if !ok {
		return domain.Answer{}, nil
	}

	if answer, hit := session.cachedArglist(symbol); hit {
		return answer, nil
	}

	// The shared lookup outlives any one caller; the session budget bounds it.
	shared := context.WithoutCancel(ctx)
	key := string(session.ID()) + "\x00" + symbol
	flight := s.arglists.DoChan(key, func() (any, error) {
		if answer, hit := session.cachedArglist(symbol); hit {
			return answer, nil
		}

		text, err := session.Request(shared, domain.FormatCommand(template, symbol), ListRequest())
		if err != nil {
			return domain.Answer{}, err
		}
		answer := domain.Answer{Text: text, Supported: true}
		if domain.IsNil(text) {
			answer.Text = ""
		}
		session.storeArglist(symbol, answer)
		return answer, nil
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return domain.Answer{}, fmt.Errorf("arglists for %s: %w", symbol, res.Err)
		}
		return res.Val.(domain.Answer), nil
	case <-ctx.Done():
		return domain.Answer{}, fmt.Errorf("arglists for %s: %w", symbol, ctx.Err())
	}
}

// Completions lists candidates for prefix. Replies that do not read as a
// single list yield no candidates.
func (s *Service) Completions(ctx context.Context, target domain.SessionID, prefix string) (domain.Completions, error) {
	session, err := s.registry.Resolve(ctx, target)
	if err != nil {
		return domain.Completions{}, err
	}

	template, ok, err := s.dialects.Template(session.Dialect(), domain.FeatureCompletion, domain.LookupPermissive)
	if err != nil {
		return domain.Completions{}, err
	}
	if !ok {
		return domain.Completions{}, nil
	}

	text, err := session.Request(ctx, domain.FormatCommand(template, prefix), ListRequest())
	if err != nil {
		return domain.Completions{}, fmt.Errorf("complete %q: %w", prefix, err)
	}

	result := domain.Completions{Supported: true}
	if domain.IsNil(text) {
		return result, nil
	}
	candidates, err := domain.ParseStringList(text)
	if err != nil {
		s.logger.Debug("discard completion reply", zap.String("prefix", prefix), zap.Error(err))
		return result, nil
	}
	result.Candidates = candidates
	return result, nil
}

func (s *Service) strict(ctx context.Context, target domain.SessionID, feature domain.Feature, arg string) (string, error) {
	session, err := s.registry.Resolve(ctx, target)
	if err != nil {
		return "", err
	}

	template, _, err := s.dialects.Template(session.Dialect(), feature, domain.LookupStrict)
	if err != nil {
		return "", fmt.Errorf("%s: %w", feature, err)
	}

	text, err := session.Request(ctx, domain.FormatCommand(template, arg), RequestOptions{})
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", feature, arg, err)
	}
	return text, nil
}

func (s *Service) permissive(ctx context.Context, target domain.SessionID, feature domain.Feature, arg string) (domain.Answer, error) {
	session, err := s.registry.Resolve(ctx, target)
	if err != nil {
		return domain.Answer{}, err
	}

	template, ok, err := s.dialects.Template(session.Dialect(), feature, domain.LookupPermissive)
	if err != nil {
		return domain.Answer{}, err
	}
	if !ok {
		return domain.Answer{}, nil
	}

	text, err := session.Request(ctx, domain.FormatCommand(template, arg), RequestOptions{})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%s %s: %w", feature, arg, err)
	}
	return domain.Answer{Text: text, Supported: true}, nil
}

func (s *Service) remember(ctx context.Context, session *Session, input string) {
	if s.history == nil || !session.Patterns().Remember(input) {
		return
	}

	_, err := s.history.Add(ctx, domain.HistoryEntry{
		Dialect: session.Dialect(),
		Input:   strings.TrimSpace(input),
		At:      s.clock.Now(),
	})
	if err != nil {
		s.logger.Warn("record history", zap.Error(err))
	}
}

// History returns the most recent inputs, oldest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	entries, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
