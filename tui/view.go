package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/fetch"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tabStyle     = lipgloss.NewStyle().Padding(0, 2)
	activeTab    = tabStyle.Foreground(lipgloss.Color("205")).Bold(true).Underline(true)
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// View renders the UI based on the current state
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n")

	switch m.page {
	case pageLuftkvalitet:
		b.WriteString(m.areas.View())
		b.WriteString("\n")
		b.WriteString(renderState(m.airQuality.State(), m.spinner.View(), readingsView))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Luftkvalitetsdata leveres av NILU, https://api.nilu.no."))
	default:
		b.WriteString(m.systems.View())
		b.WriteString("\n")
		if m.showOverview {
			b.WriteString(m.overviewView())
		} else {
			b.WriteString(renderState(m.systemInfo.State(), m.spinner.View(), systemView))
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Bysykkeldata leveres av Urban Sharing under Norsk lisens for offentlige data (NLOD) 2.0."))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab: bytt side • enter: velg • a: alle systemer • q: avslutt"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) tabs() string {
	var parts []string
	for _, p := range []page{pageBysykler, pageLuftkvalitet} {
		if p == m.page {
			parts = append(parts, activeTab.Render(p.title()))
		} else {
			parts = append(parts, tabStyle.Render(p.title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderState turns a fetch state into text. NotFetching renders nothing.
func renderState[T any](s fetch.State[T], spin string, success func(T) string) string {
	switch s.Status() {
	case fetch.StatusFetching:
		return fmt.Sprintf("%s Henter data ...", spinnerStyle.Render(spin))
	case fetch.StatusSuccess:
		v, _ := s.Value()
		return success(v)
	case fetch.StatusFailed:
		return errorStyle.Render(s.Err().Dump())
	default:
		return ""
	}
}

func systemView(info client.SystemInfo) string {
	lines := append([]string{headingStyle.Render("Systeminformasjon")}, systemLines(info)...)
	return strings.Join(lines, "\n")
}

// systemLines formats the fields of a system. Timestamps are shown in the
// system's own zone, or UTC when the zone is unknown.
func systemLines(info client.SystemInfo) []string {
	d := info.Data
	return []string{
		fmt.Sprintf("System-ID: %s", d.SystemID),
		fmt.Sprintf("Språk: %s", d.Language),
		fmt.Sprintf("Navn: %s", d.Name),
		fmt.Sprintf("Operatør: %s", d.Operator),
		fmt.Sprintf("Tidssone: %s", d.Timezone),
		fmt.Sprintf("Telefonnummer: %s", d.PhoneNumber),
		fmt.Sprintf("E-post: %s", d.Email),
		fmt.Sprintf("Siste status: %s", FormatLastUpdated(info.LastUpdated.Time, d.Location())),
	}
}

// FormatLastUpdated renders t in loc with a relative age
func FormatLastUpdated(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "ukjent"
	}
	return fmt.Sprintf("%s (%s)", t.In(loc).Format("2006-01-02 15:04:05 MST"), humanize.Time(t))
}

func readingsView(readings []client.Reading) string {
	if len(readings) == 0 {
		return infoStyle.Render("Ingen målinger for dette området.")
	}

	var b strings.Builder
	station := ""
	for _, r := range readings {
		if r.Station != station {
			station = r.Station
			b.WriteString(headingStyle.Render(station))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %-8s %8.1f %s\n", r.Component, r.Value, r.Unit)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) overviewView() string {
	ids := m.overview.IDs()
	lines := []string{headingStyle.Render("Alle systemer")}
	for _, id := range ids {
		s := m.overview.State(id)
		var status string
		switch s.Status() {
		case fetch.StatusFetching:
			status = spinnerStyle.Render(m.spinner.View())
		case fetch.StatusSuccess:
			info, _ := s.Value()
			status = successStyle.Render(fmt.Sprintf("✓ %s (%s)", info.Data.Name, info.Data.Operator))
		case fetch.StatusFailed:
			status = errorStyle.Render(fmt.Sprintf("✗ %s", s.Err().Kind))
		}
		lines = append(lines, fmt.Sprintf("%-24s %s", id, status))
	}
	return strings.Join(lines, "\n")
}
