package screens

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/patientdesk/cmd/patientdesk/ui/components"
	"github.com/mrsinham/patientdesk/internal/view"
)

// EditorScreen edits the detail form of one patient
type EditorScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	values    *view.Form
	done      bool
	cancelled bool
	width     int
}

// NewEditorScreen creates an editor over a copy of f
func NewEditorScreen(f view.Form) *EditorScreen {
	values := f
	if values.Gender == "" {
		values.Gender = view.DefaultGender
	}
	s := &EditorScreen{
		helpPanel: components.NewHelpPanel(),
		values:    &values,
	}

	genders := make([]huh.Option[string], 0, len(view.Genders))
	for _, g := range view.Genders {
		genders = append(genders, huh.NewOption(g, g))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("id").
				Title("Patient ID").
				Value(&values.ID),
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&values.Name),
			huh.NewInput().
				Key("age").
				Title("Age").
				Value(&values.Age).
				Validate(validateNumber),
			huh.NewSelect[string]().
				Key("gender").
				Title("Gender").
				Options(genders...).
				Value(&values.Gender),
			huh.NewInput().
				Key("clinic").
				Title("Clinic").
				Value(&values.Clinic),
			huh.NewInput().
				Key("doctor").
				Title("Doctor").
				Value(&values.Doctor),
		).Title("Patient"),
		huh.NewGroup(
			huh.NewInput().
				Key("phone").
				Title("Phone").
				Value(&values.Phone),
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&values.Email),
			huh.NewInput().
				Key("abs").
				Title("Abs").
				Value(&values.Abs).
				Validate(validateNumber),
			huh.NewInput().
				Key("conc").
				Title("Conc").
				Value(&values.Conc).
				Validate(validateNumber),
			huh.NewInput().
				Key("trans").
				Title("Trans").
				Value(&values.Trans).
				Validate(validateNumber),
		).Title("Contact & results"),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// validateNumber accepts an empty value or a decimal number.
func validateNumber(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

// Init implements tea.Model
func (s *EditorScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *EditorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.cancelled = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.helpPanel.SetWidth(msg.Width / 3)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
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
func (s *EditorScreen) View() string {
	title := components.TitleStyle.Render("EDIT PATIENT")
	if s.values.ID != "" {
		title = components.TitleStyle.Render("EDIT PATIENT " + s.values.ID)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		s.form.View(),
		"  ",
		s.helpPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		"",
		"Tab: Next field | Enter: Submit and save | Esc: Cancel",
	)
}

// Done returns true if the form was submitted
func (s *EditorScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *EditorScreen) Cancelled() bool { return s.cancelled }

// Form returns the edited values
func (s *EditorScreen) Form() view.Form { return *s.values }
