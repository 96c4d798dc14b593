package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/patientdesk/cmd/patientdesk/ui/components"
)

var confirmBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("160")).
	Padding(1, 2)

// ConfirmScreen asks whether to delete a patient
type ConfirmScreen struct {
	form      *huh.Form
	target    string
	yes       bool
	done      bool
	cancelled bool
}

// NewConfirmScreen creates the delete confirmation for id
func NewConfirmScreen(id string) *ConfirmScreen {
	s := &ConfirmScreen{target: id}
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Are you sure you want to delete patient %s?", id)).
				Description("The record and its generated report are removed from the host.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&s.yes),
		),
	).WithShowHelp(false)
	return s
}

// Init implements tea.Model
func (s *ConfirmScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ConfirmScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		s.cancelled = true
		return s, nil
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
func (s *ConfirmScreen) View() string {
	return confirmBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("DELETE PATIENT"),
		s.form.View(),
	))
}

// Done returns true once the question was answered
func (s *ConfirmScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *ConfirmScreen) Cancelled() bool { return s.cancelled }

// Confirmed returns true if the answer was yes. A cancelled dialog is a no.
func (s *ConfirmScreen) Confirmed() bool { return s.done && s.yes }

// Target returns the id the question is about
func (s *ConfirmScreen) Target() string { return s.target }
