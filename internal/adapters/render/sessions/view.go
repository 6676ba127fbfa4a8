package sessions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pilisp/emacs-inf-pilisp/internal/application"
	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

// Render lays out the session table.
func Render(statuses []application.SessionStatus, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderSessions(statuses, opts, s) })
}

// RenderDialects lays out dialects with their configured features. With
// verbose set the templates are listed too.
func RenderDialects(dialects []domain.Dialect, verbose bool) (string, error) {
	return run(func(s styles) string { return renderDialects(dialects, verbose, s) })
}

func renderSessions(statuses []application.SessionStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("REPL Sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No sessions running."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, status := range statuses {
		lines = append(lines, s.section.Render(renderSession(i+1, status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(index int, status application.SessionStatus, opts RenderOptions, s styles) string {
	title := s.name.Render(fmt.Sprintf("%d. %s", index, status.Info.Label()))
	if status.Active {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", s.active.Render("[active]"))
	}

	state := s.live.Render("live")
	if !status.Alive {
		state = s.dead.Render("dead")
	}

	parts := []string{
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render("state: "), state),
		s.detail.Render(fmt.Sprintf("%s: %s", status.Info.Endpoint.Transport, status.Info.Endpoint)),
	}
	if started := formatStarted(status.Info.CreatedAt, opts.Now); started != "" {
		parts = append(parts, s.detail.Render(started))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderDialects(dialects []domain.Dialect, verbose bool, s styles) string {
	lines := []string{
		s.title.Render("Dialects"),
		s.header.Render(fmt.Sprintf("dialects: %d", len(dialects))),
	}

	if len(dialects) == 0 {
		lines = append(lines, s.empty.Render("No dialects configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, dialect := range dialects {
		lines = append(lines, s.section.Render(renderDialect(dialect, verbose, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderDialect(dialect domain.Dialect, verbose bool, s styles) string {
	title := string(dialect.ID)
	if dialect.Description != "" {
		title += " - " + dialect.Description
	}

	features := dialect.FeatureNames()
	parts := []string{
		s.name.Render(title),
		s.detail.Render(fmt.Sprintf("prompt: %q", dialect.Prompt)),
	}
	if len(dialect.Command) > 0 {
		parts = append(parts, s.detail.Render("command: "+strings.Join(dialect.Command, " ")))
	}

	if !verbose {
		names := make([]string, 0, len(features))
		for _, feature := range features {
			names = append(names, string(feature))
		}
		parts = append(parts, s.detail.Render("features: "+strings.Join(names, ", ")))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if dialect.SubPrompt != "" {
		parts = append(parts, s.detail.Render(fmt.Sprintf("sub-prompt: %q", dialect.SubPrompt)))
	}
	if dialect.HistoryFilter != "" {
		parts = append(parts, s.detail.Render(fmt.Sprintf("history filter: %q", dialect.HistoryFilter)))
	}
	for _, feature := range features {
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.key.Render(fmt.Sprintf("  %-14s", feature)),
			s.template.Render(dialect.Features[feature]),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatStarted(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return ""
	}
	if now.IsZero() {
		return "started " + createdAt.Format(time.RFC3339)
	}

	elapsed := now.Sub(createdAt)
	switch {
	case elapsed < time.Minute:
		return "started just now"
	case elapsed < time.Hour:
		return plural(int(math.Floor(elapsed.Minutes())), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(math.Floor(elapsed.Hours())), "hour")
	default:
		return plural(int(math.Floor(elapsed.Hours()/24)), "day")
	}
}

func plural(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("started %d %s ago", n, unit)
}
