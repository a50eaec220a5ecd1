package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mbradley/nowplayin/internal/application"
	"github.com/mbradley/nowplayin/internal/domain"
)

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
	// PID of the sync daemon, zero when none is running.
	PID int
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Now Playin'"),
		s.header.Render(daemonLine(snapshot, opts)),
	}

	lines = append(lines, s.section.Render(renderSession(snapshot, opts, s)))

	if len(snapshot.Workspaces) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No workspaces configured.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	workspaceLines := []string{s.header.Render(fmt.Sprintf("workspaces: %d", len(snapshot.Workspaces)))}
	for _, workspace := range snapshot.Workspaces {
		workspaceLines = append(workspaceLines, renderWorkspace(workspace, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, workspaceLines...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func daemonLine(snapshot application.Snapshot, opts RenderOptions) string {
	switch {
	case opts.PID > 0 && snapshot.Running:
		return fmt.Sprintf("daemon: running (pid %d), syncing", opts.PID)
	case opts.PID > 0:
		return fmt.Sprintf("daemon: running (pid %d), idle", opts.PID)
	default:
		return "daemon: not running"
	}
}

func renderSession(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	parts := []string{
		field("track:", trackText(snapshot.Track, s), s),
		field("status:", appliedText(snapshot.LastApplied, s), s),
	}

	if snapshot.Message != "" {
		parts = append(parts, field("message:", s.warning.Render(snapshot.Message), s))
	}
	if snapshot.SuppressExitClear {
		parts = append(parts, s.edited.Render("status will not be cleared on exit"))
	}

	if !snapshot.UpdatedAt.IsZero() {
		updated := s.detail.Render(formatUpdated(snapshot.UpdatedAt, opts.Now))
		if isStale(snapshot, opts) {
			updated += " " + s.warning.Render("[stale]")
		}
		parts = append(parts, field("updated:", updated, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func field(label, value string, s styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), " ", value)
}

func trackText(track *domain.Track, s styles) string {
	if track == nil || track.DisplayText() == "" {
		return s.empty.Render("nothing playing")
	}
	return s.track.Render(track.DisplayText()) + " " + s.detail.Render("("+string(track.State)+")")
}

func appliedText(applied *string, s styles) string {
	switch {
	case applied == nil:
		return s.empty.Render("not set")
	case *applied == "":
		return s.empty.Render("cleared")
	default:
		return s.detail.Render(*applied)
	}
}

func renderWorkspace(workspace application.WorkspaceState, s styles) string {
	title := s.workspace.Render(workspaceTitle(workspace.Name, workspace.ID))

	var state string
	switch {
	case workspace.Edited:
		state = s.edited.Render("changed externally, left alone")
	case workspace.Error != "":
		state = s.warning.Render("error: " + workspace.Error)
	case workspace.Owned:
		state = s.ok.Render("in sync")
	default:
		state = s.empty.Render("waiting")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, "  ", title, " ", state)
}

func workspaceTitle(name string, id domain.WorkspaceID) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return string(id)
	}
	return fmt.Sprintf("%s (%s)", trimmed, id)
}

func isStale(snapshot application.Snapshot, opts RenderOptions) bool {
	if !snapshot.Running || opts.Now.IsZero() || opts.StaleAfter <= 0 {
		return false
	}
	return opts.Now.Sub(snapshot.UpdatedAt) > opts.StaleAfter
}

func formatUpdated(at, now time.Time) string {
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}

	elapsed := now.Sub(at)
	if elapsed < time.Minute {
		return "just now"
	}
	if elapsed < time.Hour {
		minutes := int(math.Floor(elapsed.Minutes()))
		return plural(minutes, "minute") + " ago"
	}
	if elapsed < 24*time.Hour {
		hours := int(math.Floor(elapsed.Hours()))
		return plural(hours, "hour") + " ago"
	}

	return at.Format("15:04 on 02 Jan")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
