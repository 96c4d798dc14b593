package components

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/patientdesk/internal/view"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)
)

// Theme is the set of styles one colour scheme draws with.
type Theme struct {
	Name      string
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	LightOn   lipgloss.Style
	LightOff  lipgloss.Style
	QR        lipgloss.Style
	Info      lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Table     table.Styles
}

type palette struct {
	fg, bg, accent, muted, border, on, off, info, success, failure lipgloss.Color
}

var (
	lightPalette = palette{
		fg: "235", bg: "255", accent: "63", muted: "244", border: "250",
		on: "34", off: "250", info: "33", success: "28", failure: "160",
	}
	darkPalette = palette{
		fg: "252", bg: "235", accent: "141", muted: "243", border: "238",
		on: "42", off: "240", info: "75", success: "42", failure: "203",
	}
)

// ThemeFor returns the styles of t.
func ThemeFor(t view.Theme) Theme {
	if t == view.ThemeDark {
		return newTheme(t.String(), darkPalette)
	}
	return newTheme(t.String(), lightPalette)
}

func newTheme(name string, p palette) Theme {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.border).
		BorderBottom(true).
		Bold(true).
		Foreground(p.accent)
	ts.Selected = ts.Selected.
		Foreground(p.bg).
		Background(p.accent).
		Bold(false)
	ts.Cell = ts.Cell.Foreground(p.fg)

	return Theme{
		Name:      name,
		Header:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Tab:       lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(p.bg).Background(p.accent).Bold(true).Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		Label:    lipgloss.NewStyle().Foreground(p.muted).Width(14),
		Value:    lipgloss.NewStyle().Foreground(p.fg),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		LightOn:  lipgloss.NewStyle().Foreground(p.on).Bold(true),
		LightOff: lipgloss.NewStyle().Foreground(p.off),
		// QR codes need dark modules on a light ground to scan.
		QR:      lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("231")),
		Info:    lipgloss.NewStyle().Foreground(p.info),
		Success: lipgloss.NewStyle().Foreground(p.success).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(p.failure).Bold(true),
		Table:   ts,
	}
}
