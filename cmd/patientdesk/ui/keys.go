package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/mrsinham/patientdesk/internal/view"
)

type keyMap struct {
	Dashboard key.Binding
	Reports   key.Binding
	Settings  key.Binding
	Quit      key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Filter key.Binding
	New    key.Binding
	Edit   key.Binding
	Save   key.Binding
	Delete key.Binding
	Gen    key.Binding
	Reload key.Binding

	Email    key.Binding
	WhatsApp key.Binding
	Folder   key.Binding
	Site     key.Binding

	Theme  key.Binding
	Import key.Binding
}

var keys = keyMap{
	Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
	Reports:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "reports")),
	Settings:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "settings")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Gen:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

	Email:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "email")),
	WhatsApp: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "whatsapp")),
	Folder:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open folder")),
	Site:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "open dashboard")),

	Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import dicom")),
}

// tabKeys is the help.KeyMap of one page.
type tabKeys struct {
	tab view.Tab
}

func (k tabKeys) ShortHelp() []key.Binding {
	global := []key.Binding{keys.Dashboard, keys.Reports, keys.Settings, keys.Quit}
	switch k.tab {
	case view.TabReports:
		return append([]key.Binding{keys.Email, keys.WhatsApp, keys.Folder, keys.Site, keys.Gen}, global...)
	case view.TabSettings:
		return append([]key.Binding{keys.Theme, keys.Import}, global...)
	default:
		return append([]key.Binding{keys.Select, keys.Filter, keys.New, keys.Edit, keys.Save, keys.Delete, keys.Gen, keys.Reload}, global...)
	}
}

func (k tabKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
