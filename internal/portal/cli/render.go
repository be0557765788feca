// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/portal/navigator"
	"github.com/taibuivan/pwdregistry/internal/registry"
	"github.com/taibuivan/pwdregistry/pkg/pagination"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// RenderError formats err for the terminal.
func RenderError(err error) string {
	return errorStyle.Render("Error: ") + err.Error()
}

func renderSuccess(message string) string {
	return successStyle.Render("✓ ") + message
}

func field(label, value string) string {
	if value == "" {
		value = mutedStyle.Render("-")
	}
	return labelStyle.Render(label) + value
}

// renderSession shows who is signed in.
func renderSession(session *identity.Session) string {
	if session == nil {
		return mutedStyle.Render("Not signed in.")
	}

	role := session.RoleName()
	if role == "" {
		role = mutedStyle.Render("unresolved")
	}

	lines := []string{
		titleStyle.Render(session.DisplayName()),
		field("Email", session.Email),
		field("Identity", session.IdentityID),
		field("Role", role),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderRoute shows where a navigation ended.
func renderRoute(result navigator.Result) string {
	header := titleStyle.Render(result.Route.Title) + " " + mutedStyle.Render(result.Route.Path)
	if !result.Redirected() {
		return header
	}
	return header + "\n" + mutedStyle.Render("redirected: "+strings.Join(result.Trail, " → "))
}

// renderRegistrations lays a page of registrations out as a table.
func renderRegistrations(page []registry.Registration, meta pagination.Meta) string {
	if len(page) == 0 {
		return mutedStyle.Render("No registrations.")
	}

	rows := make([][]string, 0, len(page))
	for _, record := range page {
		rows = append(rows, []string{
			shortID(record.ID),
			record.PersonalInfo.Name,
			record.DisabilityInfo.Type,
			record.DisabilityInfo.Severity,
			record.Address.City,
			record.CreatedAt.Format("2006-01-02"),
		})
	}

	grid := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "NAME", "DISABILITY", "SEVERITY", "CITY", "FILED").
		Rows(rows...)

	footer := mutedStyle.Render(fmt.Sprintf("page %d of %d, %d total", meta.Page, max(meta.TotalPages, 1), meta.Total))
	return grid.String() + "\n" + footer
}

// renderRegistration summarises one submitted record.
func renderRegistration(record *registry.Registration) string {
	lines := []string{
		titleStyle.Render("Registration " + shortID(record.ID)),
		field("Name", record.PersonalInfo.Name),
		field("Disability", strings.TrimSpace(record.DisabilityInfo.Type+" "+record.DisabilityInfo.Severity)),
		field("City", record.Address.City),
		field("Skills", strings.Join(record.Skills, ", ")),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
