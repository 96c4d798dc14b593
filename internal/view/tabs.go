package view

// Tab is one of the top-level pages.
type Tab int

const (
	TabDashboard Tab = iota
	TabReports
	TabSettings
)

// Tabs lists the pages in navigation order.
var Tabs = []Tab{TabDashboard, TabReports, TabSettings}

// String returns the tab id.
func (t Tab) String() string {
	switch t {
	case TabReports:
		return "reports"
	case TabSettings:
		return "settings"
	default:
		return "dashboard"
	}
}

// Title returns the page title shown in the header.
func (t Tab) Title() string {
	switch t {
	case TabReports:
		return "Reports & Actions"
	case TabSettings:
		return "Settings"
	default:
		return "Patient Management"
	}
}

// Theme is the session colour scheme.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

// ParseTheme accepts "light" or "dark"; anything else is light.
func ParseTheme(s string) Theme {
	if s == "dark" {
		return ThemeDark
	}
	return ThemeLight
}

// String returns the theme name.
func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
