package screens

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/patientdesk/cmd/patientdesk/ui/components"
)

// ImportScreen asks for the DICOM file to import
type ImportScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	path      string
	done      bool
	cancelled bool
}

// NewImportScreen creates the import dialog, prefilled with last
func NewImportScreen(last string) *ImportScreen {
	s := &ImportScreen{
		helpPanel: components.NewHelpPanel(),
		path:      last,
	}
	s.helpPanel.SetField("import_path")
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("import_path").
				Title("DICOM file").
				Placeholder("scans/patient.dcm").
				Value(&s.path).
				Validate(validateImportPath),
		),
	).WithShowHelp(false).WithShowErrors(true)
	return s
}

func validateImportPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("path is required")
	}
	info, err := os.Stat(expandHome(s))
	if err != nil {
		return fmt.Errorf("file not found")
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory")
	}
	return nil
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(p string) string {
	p = strings.TrimSpace(p)
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Init implements tea.Model
func (s *ImportScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ImportScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.cancelled = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.done = true
	case huh.StateAborted:
		s.cancelled = true
	}
	return s, cmd
}

// View implements tea.Model
func (s *ImportScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("IMPORT FROM DICOM"),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Enter: Import | Esc: Cancel",
	)
}

// Done returns true if a path was submitted
func (s *ImportScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *ImportScreen) Cancelled() bool { return s.cancelled }

// Path returns the chosen file with ~ expanded
func (s *ImportScreen) Path() string { return expandHome(s.path) }
