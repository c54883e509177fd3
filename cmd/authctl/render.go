package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(9)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	expiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	noneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func renderStatus(state session.State, authenticated bool) string {
	var status string
	switch {
	case authenticated:
		status = activeStyle.Render("logged in")
	case state.Authenticated():
		status = expiredStyle.Render("expired")
	default:
		return noneStyle.Render("Not logged in")
	}

	rows := []string{
		row("Status", status),
		row("Name", state.FullName),
		row("Email", state.Email),
		row("Role", roleOf(state)),
	}
	if state.User != nil && !state.User.ExpiresAt.IsZero() {
		rows = append(rows, row("Expires", state.User.ExpiresAt.Local().Format(time.RFC1123)))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	if value == "" {
		value = "-"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label+":"), value)
}

// roleOf falls back to a role list, which some servers issue instead of a
// single role.
func roleOf(state session.State) string {
	if state.Role != "" || state.User == nil {
		return state.Role
	}
	return strings.Join(state.User.ExtraStrings(token.ClaimRole), ", ")
}
