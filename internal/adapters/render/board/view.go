package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/frontdesk/internal/application"
	"github.com/bnema/frontdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 12

type RenderOptions struct {
	BarWidth int
	// HideEmpty drops the sessions and waitlist sections when they are
	// empty.
	HideEmpty bool
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.BarWidth <= 0 {
		o.BarWidth = defaultBarWidth
	}
	return o
}

func renderView(b application.Board, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Front Desk"),
		s.header.Render(fmt.Sprintf("%s  sessions: %d  waiting: %d",
			b.Now.Format("15:04"), len(b.Sessions), len(b.Waitlist))),
	}

	lines = append(lines,
		s.section.Render(renderPools("Stations", b.Stations, opts, s)),
		s.section.Render(renderPools("Equipment", b.Equipment, opts, s)),
	)

	if len(b.Sessions) > 0 || !opts.HideEmpty {
		lines = append(lines, s.section.Render(renderSessions(b.Sessions, s)))
	}
	if len(b.Waitlist) > 0 || !opts.HideEmpty {
		lines = append(lines, s.section.Render(renderWaitlist(b.Waitlist, s)))
	}
	if len(b.Notices) > 0 {
		lines = append(lines, s.section.Render(renderNotices(b.Notices, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPools(title string, pools []domain.PoolStatus, opts RenderOptions, s styles) string {
	parts := []string{s.heading.Render(title)}
	if len(pools) == 0 {
		parts = append(parts, s.empty.Render("none configured"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	width := 0
	for _, p := range pools {
		if n := lipgloss.Width(domain.DisplayName(p.Name)); n > width {
			width = n
		}
	}

	for _, p := range pools {
		label := s.detail.Render(padRight(domain.DisplayName(p.Name), width))
		count := fmt.Sprintf("%d/%d free", p.Available, p.Total)
		countStyle := lipgloss.NewStyle().Foreground(availabilityColor(p.Available, p.Total))
		if p.Available == 0 {
			countStyle = s.warning
		}
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			label,
			" ",
			renderAvailabilityBar(p.Available, p.Total, opts.BarWidth, s),
			" ",
			countStyle.Render(count),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSessions(sessions []application.SessionStatus, s styles) string {
	parts := []string{s.heading.Render("Sessions")}
	if len(sessions) == 0 {
		parts = append(parts, s.empty.Render("No active sessions."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, session := range sessions {
		timer := s.detail.Render(session.TimerText)
		if session.Overdue {
			timer = s.warning.Render(session.TimerText)
		}

		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.name.Render(clientLabel(session.ClientName, session.Banner)),
			" ",
			s.detail.Render(resourceLabel(session.Station, session.Equipment)),
			" ",
			timer,
			" ",
			s.header.Render("until "+session.EndsAt.Format("15:04")),
		)
		if !session.Renewable {
			line += " " + s.header.Render("[no refresh]")
		}
		parts = append(parts, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderWaitlist(entries []application.EntryStatus, s styles) string {
	parts := []string{s.heading.Render("Waitlist")}
	if len(entries) == 0 {
		parts = append(parts, s.empty.Render("Nobody is waiting."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, entry := range entries {
		wait := s.detail.Render(fmt.Sprintf("%s (~%s)", entry.WaitText, entry.EstimatedReadyAt.Format("15:04")))
		if entry.Admissible {
			wait = s.ready.Render("ready to check out")
		}

		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.header.Render(fmt.Sprintf("%d.", entry.Position)),
			" ",
			s.name.Render(clientLabel(entry.ClientName, entry.Banner)),
			" ",
			s.detail.Render(resourceLabel(entry.Station, entry.Equipment)),
			" ",
			wait,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderNotices(notices []domain.Notice, s styles) string {
	parts := []string{s.heading.Render("Notices")}
	for _, n := range notices {
		parts = append(parts, s.notice.Render(fmt.Sprintf("[%d] %s", n.ID, n.String())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderAvailabilityBar(available, total, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(width) * float64(available) / float64(total)))
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clientLabel(name string, banner domain.BannerID) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "#" + banner.String()
	}
	return fmt.Sprintf("%s #%s", name, banner)
}

func resourceLabel(station string, equipment []string) string {
	if len(equipment) == 0 {
		return station
	}

	names := make([]string, 0, len(equipment))
	for _, e := range equipment {
		names = append(names, domain.DisplayName(e))
	}
	return fmt.Sprintf("%s + %s", station, strings.Join(names, ", "))
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// availabilityColor fades from grey when a pool is nearly exhausted to
// bright white when it is fully free.
func availabilityColor(available, total int) lipgloss.Color {
	if total <= 0 {
		return lipgloss.Color("240")
	}

	normalized := float64(available) / float64(total)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	const base, target = 240.0, 255.0
	return lipgloss.Color(fmt.Sprintf("%d", int(base+(target-base)*normalized)))
}
