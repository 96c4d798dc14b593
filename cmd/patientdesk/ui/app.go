// Package ui is the terminal front end. It draws the dispatcher state and
// turns key presses into dispatcher intents.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/patientdesk/cmd/patientdesk/ui/components"
	"github.com/mrsinham/patientdesk/cmd/patientdesk/ui/screens"
	"github.com/mrsinham/patientdesk/internal/dispatch"
	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/view"
)

// Phase is what currently receives key presses.
type Phase int

const (
	PhaseBrowse Phase = iota
	PhaseFilter
	PhaseEdit
	PhaseConfirm
	PhaseImport
)

const clockLayout = "Mon 02 Jan 15:04:05"

// Options configures the App.
type Options struct {
	// HostURL is shown on the settings page.
	HostURL string
	// LogFile is shown on the settings page when set.
	LogFile string
	// Import reads a patient record from a DICOM file. Nil disables import.
	Import func(path string) (patient.Detail, error)
	// Now is the clock shown in the header.
	Now func() time.Time
}

type clockMsg time.Time

// App is the bubbletea model of the whole program.
type App struct {
	d    *dispatch.Dispatcher
	opts Options

	phase    Phase
	table    table.Model
	filter   textinput.Model
	help     help.Model
	editor   *screens.EditorScreen
	confirm  *screens.ConfirmScreen
	importer *screens.ImportScreen

	lastImport string
	now        time.Time
	width      int
	height     int
}

// New creates the App over d.
func New(d *dispatch.Dispatcher, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cols := make([]table.Column, 0, len(view.Columns))
	for _, c := range view.Columns {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "Search by name or ID"
	fi.CharLimit = 64

	a := &App{
		d:      d,
		opts:   opts,
		table:  t,
		filter: fi,
		help:   help.New(),
		now:    opts.Now(),
	}
	a.restyle()
	a.syncTable()
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.d.Load(), a.tick())
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// Phase returns what currently receives key presses.
func (a *App) Phase() Phase { return a.phase }

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
	case clockMsg:
		a.now = time.Time(msg)
		return a, a.tick()
	}

	var cmds []tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		cmds = append(cmds, a.d.Handle(msg))
	}

	var cmd tea.Cmd
	switch a.phase {
	case PhaseEdit:
		cmd = a.updateEditor(msg)
	case PhaseConfirm:
		cmd = a.updateConfirm(msg)
	case PhaseImport:
		cmd = a.updateImport(msg)
	case PhaseFilter:
		cmd = a.updateFilter(msg)
	default:
		cmd = a.updateBrowse(msg)
	}
	cmds = append(cmds, cmd)

	a.syncTable()
	return a, tea.Batch(cmds...)
}

func (a *App) updateBrowse(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(km, keys.Quit):
		return tea.Quit
	case key.Matches(km, keys.Dashboard):
		a.d.SwitchTab(view.TabDashboard)
		return nil
	case key.Matches(km, keys.Reports):
		a.d.SwitchTab(view.TabReports)
		return nil
	case key.Matches(km, keys.Settings):
		a.d.SwitchTab(view.TabSettings)
		return nil
	case key.Matches(km, keys.Theme):
		a.d.ToggleTheme()
		a.restyle()
		return nil
	}

	switch a.d.State().Tab {
	case view.TabReports:
		return a.reportsKey(km)
	case view.TabSettings:
		return a.settingsKey(km)
	default:
		return a.dashboardKey(km)
	}
}

func (a *App) dashboardKey(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, keys.Select):
		rows := a.d.Rows()
		i := a.table.Cursor()
		if i < 0 || i >= len(rows) {
			return nil
		}
		return a.d.Select(rows[i].ID)
	case key.Matches(km, keys.Filter):
		a.phase = PhaseFilter
		a.filter.SetValue(a.d.State().Query)
		return a.filter.Focus()
	case key.Matches(km, keys.New):
		return a.d.New()
	case key.Matches(km, keys.Edit):
		a.editor = screens.NewEditorScreen(a.d.State().Form)
		a.phase = PhaseEdit
		return tea.Batch(a.editor.Init(), a.sizeMsg())
	case key.Matches(km, keys.Save):
		return a.d.Save()
	case key.Matches(km, keys.Delete):
		cmd := a.d.RequestDelete()
		if s := a.d.State(); s.Confirming {
			a.confirm = screens.NewConfirmScreen(s.ConfirmTarget)
			a.phase = PhaseConfirm
			return tea.Batch(cmd, a.confirm.Init())
		}
		return cmd
	case key.Matches(km, keys.Gen):
		return a.d.Generate()
	case key.Matches(km, keys.Reload):
		return a.d.Load()
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(km)
	return cmd
}

func (a *App) reportsKey(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, keys.Email):
		return a.d.SendEmail()
	case key.Matches(km, keys.WhatsApp):
		return a.d.SendWhatsApp()
	case key.Matches(km, keys.Folder):
		return a.d.OpenFolder()
	case key.Matches(km, keys.Site):
		return a.d.OpenDashboard()
	case key.Matches(km, keys.Gen):
		return a.d.Generate()
	}
	return nil
}

func (a *App) settingsKey(km tea.KeyMsg) tea.Cmd {
	if key.Matches(km, keys.Import) && a.opts.Import != nil {
		a.importer = screens.NewImportScreen(a.lastImport)
		a.phase = PhaseImport
		return tea.Batch(a.importer.Init(), a.sizeMsg())
	}
	return nil
}

func (a *App) updateFilter(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			a.filter.SetValue("")
			a.d.SetQuery("")
			a.leaveFilter()
			return nil
		case "enter":
			a.leaveFilter()
			return nil
		case "ctrl+c":
			return tea.Quit
		}
	}

	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	if q := a.filter.Value(); q != a.d.State().Query {
		a.d.SetQuery(q)
		a.table.SetCursor(0)
	}
	return cmd
}

func (a *App) leaveFilter() {
	a.filter.Blur()
	a.phase = PhaseBrowse
}

func (a *App) updateEditor(msg tea.Msg) tea.Cmd {
	model, cmd := a.editor.Update(msg)
	if es, ok := model.(*screens.EditorScreen); ok {
		a.editor = es
	}

	switch {
	case a.editor.Cancelled():
		a.phase = PhaseBrowse
		return nil
	case a.editor.Done():
		a.phase = PhaseBrowse
		a.d.EditForm(a.editor.Form())
		return a.d.Save()
	}
	return cmd
}

func (a *App) updateConfirm(msg tea.Msg) tea.Cmd {
	model, cmd := a.confirm.Update(msg)
	if cs, ok := model.(*screens.ConfirmScreen); ok {
		a.confirm = cs
	}

	if a.confirm.Done() || a.confirm.Cancelled() {
		a.phase = PhaseBrowse
		return a.d.ConfirmDelete(a.confirm.Confirmed())
	}
	return cmd
}

func (a *App) updateImport(msg tea.Msg) tea.Cmd {
	model, cmd := a.importer.Update(msg)
	if is, ok := model.(*screens.ImportScreen); ok {
		a.importer = is
	}

	switch {
	case a.importer.Cancelled():
		a.phase = PhaseBrowse
		return nil
	case a.importer.Done():
		a.phase = PhaseBrowse
		a.lastImport = a.importer.Path()
		a.d.SwitchTab(view.TabDashboard)
		return a.d.Import(a.lastImport, a.opts.Import)
	}
	return cmd
}

// sizeMsg replays the window size to a screen opened after the last resize.
func (a *App) sizeMsg() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	w, h := a.width, a.height
	return func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} }
}

func (a *App) resize() {
	h := a.height - 12
	if h < 5 {
		h = 5
	}
	a.table.SetHeight(h)
	a.help.Width = a.width
}

func (a *App) restyle() {
	a.table.SetStyles(components.ThemeFor(a.d.State().Theme).Table)
}

func (a *App) syncTable() {
	rows := a.d.Rows()
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row(r.Cells))
	}
	a.table.SetRows(out)
	// SetRows leaves the cursor at -1 after an empty set.
	if c := a.table.Cursor(); c < 0 || c >= len(out) {
		a.table.SetCursor(max(min(c, len(out)-1), 0))
	}
}

// View implements tea.Model.
func (a *App) View() string {
	s := a.d.State()
	th := components.ThemeFor(s.Theme)

	var body string
	switch a.phase {
	case PhaseEdit:
		body = a.editor.View()
	case PhaseConfirm:
		body = a.confirm.View()
	case PhaseImport:
		body = a.importer.View()
	default:
		switch s.Tab {
		case view.TabReports:
			body = a.viewReports(s, th)
		case view.TabSettings:
			body = a.viewSettings(s, th)
		default:
			body = a.viewDashboard(s, th)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewHeader(s, th),
		"",
		body,
		"",
		viewToast(s.Toast, th),
		a.help.View(tabKeys{tab: s.Tab}),
	)
}

func (a *App) viewHeader(s dispatch.State, th components.Theme) string {
	tabs := make([]string, 0, len(view.Tabs))
	for i, t := range view.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if t == s.Tab {
			tabs = append(tabs, th.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, th.Tab.Render(label))
		}
	}
	right := th.Muted.Render(fmt.Sprintf("%s theme  %s", th.Name, a.now.Format(clockLayout)))
	return lipgloss.JoinVertical(lipgloss.Left,
		th.Header.Render(s.Tab.Title()),
		lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, " "), "   ", right),
	)
}

func (a *App) viewDashboard(s dispatch.State, th components.Theme) string {
	filter := th.Muted.Render("/ " + s.Query)
	if a.phase == PhaseFilter {
		filter = a.filter.View()
	} else if s.Query == "" {
		filter = th.Muted.Render("/ to search")
	}

	left := lipgloss.JoinVertical(lipgloss.Left, filter, a.table.View())
	right := th.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		viewDetail(s.Form, th),
		"",
		viewIndicators(s.Status, th),
	))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func viewDetail(f view.Form, th components.Theme) string {
	lines := make([]string, 0, 12)
	for _, field := range f.Fields() {
		lines = append(lines, th.Label.Render(field.Label)+th.Value.Render(field.Value))
	}
	return strings.Join(lines, "\n")
}

func viewIndicators(ind view.Indicators, th components.Theme) string {
	parts := make([]string, 0, 4)
	for _, i := range ind.List() {
		if i.Active {
			parts = append(parts, th.LightOn.Render("● "+i.Label))
		} else {
			parts = append(parts, th.LightOff.Render("○ "+i.Label))
		}
	}
	return strings.Join(parts, "  ")
}

func (a *App) viewReports(s dispatch.State, th components.Theme) string {
	var qr string
	switch {
	case len(s.QR.Lines) > 0:
		qr = th.QR.Render(strings.Join(s.QR.Lines, "\n"))
	default:
		qr = th.Muted.Render(s.QR.Note)
	}

	status := th.Muted.Render("No report")
	if s.QR.Ready {
		status = th.Success.Render(s.QR.Status)
	}

	patientLine := th.Muted.Render("No patient selected")
	if id, ok := s.Cache.Selected(); ok {
		patientLine = th.Value.Render(fmt.Sprintf("%s  %s", id, s.Form.Name))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		th.Panel.Render(qr),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left,
			patientLine,
			"",
			status,
			"",
			viewIndicators(s.Status, th),
		),
	)
}

func (a *App) viewSettings(s dispatch.State, th components.Theme) string {
	rows := []string{
		th.Label.Render("Theme") + th.Value.Render(s.Theme.String()),
		th.Label.Render("Host") + th.Value.Render(a.opts.HostURL),
	}
	if a.opts.LogFile != "" {
		rows = append(rows, th.Label.Render("Log file")+th.Value.Render(a.opts.LogFile))
	}
	if a.opts.Import != nil {
		rows = append(rows, "", th.Muted.Render("Press i to fill the editor from a DICOM file."))
	}
	return th.Panel.Render(strings.Join(rows, "\n"))
}

func viewToast(t dispatch.Toast, th components.Theme) string {
	if !t.Visible() {
		return ""
	}
	switch t.Level {
	case dispatch.ToastSuccess:
		return th.Success.Render(t.Text)
	case dispatch.ToastError:
		return th.Error.Render(t.Text)
	default:
		return th.Info.Render(t.Text)
	}
}

// Run shows app on the alternate screen until the user quits or ctx ends.
func Run(ctx context.Context, app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
