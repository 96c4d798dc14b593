// Package dispatch turns user intents into host calls and applies their
// results to the application state.
//
// Every intent returns a tea.Cmd performing the host call off the UI loop.
// The call's result comes back as one of the exported *Msg types, which the
// UI hands to Handle. Multi-step chains such as save, reload list, reload
// detail are linked through those messages, so each step starts only after
// the previous one has been applied.
package dispatch

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mrsinham/patientdesk/internal/api"
	"github.com/mrsinham/patientdesk/internal/cache"
	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/view"
)

const (
	DefaultToastDuration      = 3 * time.Second
	DefaultStatusRefreshDelay = time.Second
	DefaultQRWidth            = 40
)

// Dispatcher owns the State and is driven from the UI loop only.
type Dispatcher struct {
	backend api.Backend
	ctx     context.Context
	log     zerolog.Logger

	toastDuration time.Duration
	refreshDelay  time.Duration
	qrWidth       int

	state    State
	toastSeq uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithContext sets the context host calls run under.
func WithContext(ctx context.Context) Option {
	return func(d *Dispatcher) { d.ctx = ctx }
}

// WithLogger sets the logger used for failed host calls.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithToastDuration sets how long a toast stays up. Zero keeps it until
// the next one replaces it.
func WithToastDuration(dur time.Duration) Option {
	return func(d *Dispatcher) { d.toastDuration = dur }
}

// WithStatusRefreshDelay sets the wait before status flags are re-read
// after an email or WhatsApp send.
func WithStatusRefreshDelay(dur time.Duration) Option {
	return func(d *Dispatcher) { d.refreshDelay = dur }
}

// WithQRWidth sets the QR preview width in terminal cells.
func WithQRWidth(w int) Option {
	return func(d *Dispatcher) { d.qrWidth = w }
}

// WithTheme sets the starting theme.
func WithTheme(t view.Theme) Option {
	return func(d *Dispatcher) { d.state.Theme = t }
}

// New creates a dispatcher over backend with an empty cache.
func New(backend api.Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend:       backend,
		ctx:           context.Background(),
		log:           zerolog.Nop(),
		toastDuration: DefaultToastDuration,
		refreshDelay:  DefaultStatusRefreshDelay,
		qrWidth:       DefaultQRWidth,
		state:         newState(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current state for rendering.
func (d *Dispatcher) State() State {
	return d.state
}

// Visible returns the cached list with the filter query applied.
func (d *Dispatcher) Visible() []patient.Summary {
	return view.Filter(d.state.Cache.Patients(), d.state.Query)
}

// Rows renders the visible list.
func (d *Dispatcher) Rows() []view.Row {
	return view.Rows(d.Visible())
}

// Handle applies a result message and returns the next step, if any.
// Messages it does not know are ignored.
func (d *Dispatcher) Handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListLoadedMsg:
		return d.handleList(msg)
	case DetailLoadedMsg:
		return d.handleDetail(msg)
	case QRLoadedMsg:
		return d.handleQR(msg)
	case SavedMsg:
		return d.handleSaved(msg)
	case DeletedMsg:
		return d.handleDeleted(msg)
	case ReportMsg:
		return d.handleReport(msg)
	case ActionDoneMsg:
		return d.handleAction(msg)
	case StatusRefreshMsg:
		return d.handleStatusRefresh(msg)
	case ImportedMsg:
		if msg.Err != nil {
			return d.reject(msg.Err, "Import failed: "+msg.Err.Error())
		}
		return d.ApplyImport(msg.Detail)
	case ToastExpiredMsg:
		if msg.Seq == d.state.Toast.Seq {
			d.state.Toast = Toast{}
		}
	}
	return nil
}

// Load fetches the full patient list.
func (d *Dispatcher) Load() tea.Cmd {
	return d.fetchList(false, "")
}

// Select fetches the detail of id. Only the latest selection request may
// change the view; older answers are dropped when they arrive.
func (d *Dispatcher) Select(id string) tea.Cmd {
	tok := d.state.Cache.BeginSelect(id)
	ctx, b := d.ctx, d.backend
	return func() tea.Msg {
		detail, err := b.PatientDetail(ctx, id)
		return DetailLoadedMsg{Token: tok, ID: id, Detail: detail, Err: err}
	}
}

// New resets the selection and the form.
func (d *Dispatcher) New() tea.Cmd {
	d.clearSelection()
	return d.notify("Ready for new patient", ToastInfo)
}

// Save sends the form to the host. An empty id is rejected locally.
func (d *Dispatcher) Save() tea.Cmd {
	if d.state.Form.ID == "" {
		return d.reject(&ValidationError{Field: "id", Message: "required"}, "Patient ID is required")
	}
	payload := d.state.Form.Detail()
	ctx, b := d.ctx, d.backend
	return func() tea.Msg {
		ok, err := b.SavePatient(ctx, payload)
		return SavedMsg{ID: payload.ID, OK: ok, Err: err}
	}
}

// RequestDelete asks for confirmation before deleting the selection.
func (d *Dispatcher) RequestDelete() tea.Cmd {
	id, ok := d.state.Cache.Selected()
	if !ok {
		return d.reject(&ValidationError{Field: "selection", Message: "required"}, "Select a patient first")
	}
	d.state.Confirming = true
	d.state.ConfirmTarget = id
	return nil
}

// ConfirmDelete answers the pending confirmation. Without a pending
// request it does nothing.
func (d *Dispatcher) ConfirmDelete(yes bool) tea.Cmd {
	if !d.state.Confirming {
		return nil
	}
	id := d.state.ConfirmTarget
	d.state.Confirming = false
	d.state.ConfirmTarget = ""
	if !yes {
		return nil
	}
	ctx, b := d.ctx, d.backend
	return func() tea.Msg {
		ok, err := b.DeletePatient(ctx, id)
		return DeletedMsg{ID: id, OK: ok, Err: err}
	}
}

// Generate asks the host for the selected patient's report.
func (d *Dispatcher) Generate() tea.Cmd {
	id, ok := d.state.Cache.Selected()
	if !ok {
		return d.reject(&ValidationError{Field: "selection", Message: "required"}, "Save patient first")
	}
	ctx, b := d.ctx, d.backend
	call := func() tea.Msg {
		res, err := b.GenerateReport(ctx, id)
		return ReportMsg{ID: id, Result: res, Err: err}
	}
	return tea.Batch(d.notify("Generating Report... Please Wait", ToastInfo), call)
}

// SendEmail asks the host to email the selected patient's report, then
// re-reads the status flags after the refresh delay.
func (d *Dispatcher) SendEmail() tea.Cmd {
	return d.sendAndRefresh(api.OpSendEmail, d.backend.SendEmail)
}

// SendWhatsApp is SendEmail over WhatsApp.
func (d *Dispatcher) SendWhatsApp() tea.Cmd {
	return d.sendAndRefresh(api.OpSendWhatsApp, d.backend.SendWhatsApp)
}

// OpenFolder asks the host to reveal the selected patient's report folder.
func (d *Dispatcher) OpenFolder() tea.Cmd {
	id, ok := d.state.Cache.Selected()
	if !ok {
		return d.reject(&ValidationError{Field: "selection", Message: "required"}, "Select patient first")
	}
	return d.fire(api.OpOpenFolder, id, d.backend.OpenFolder)
}

// OpenDashboard asks the host to open the published reports site.
func (d *Dispatcher) OpenDashboard() tea.Cmd {
	return d.fire(api.OpOpenDashboard, "", func(ctx context.Context, _ string) error {
		return d.backend.OpenDashboard(ctx)
	})
}

// SetQuery changes the filter. The host is never queried.
func (d *Dispatcher) SetQuery(q string) {
	d.state.Query = q
}

// SwitchTab changes the active page.
func (d *Dispatcher) SwitchTab(t view.Tab) {
	d.state.Tab = t
}

// ToggleTheme flips the colour scheme for this session.
func (d *Dispatcher) ToggleTheme() {
	d.state.Theme = d.state.Theme.Toggle()
}

// EditForm replaces the form being edited.
func (d *Dispatcher) EditForm(f view.Form) {
	d.state.Form = f
}

// Import reads a record from path with read, off the UI loop. The result
// is applied through ApplyImport.
func (d *Dispatcher) Import(path string, read func(string) (patient.Detail, error)) tea.Cmd {
	if path == "" {
		return d.reject(&ValidationError{Field: "path", Message: "required"}, "Import path is required")
	}
	return func() tea.Msg {
		detail, err := read(path)
		return ImportedMsg{Path: path, Detail: detail, Err: err}
	}
}

// ApplyImport fills the form from an imported record. The selection is
// left alone; the record reaches the host only when saved.
func (d *Dispatcher) ApplyImport(detail patient.Detail) tea.Cmd {
	f := view.PopulateForm(&detail)
	if f.Date == "" {
		f.Date = detail.Date
	}
	d.state.Form = f
	name := detail.Name
	if name == "" {
		name = detail.ID
	}
	return d.notify("Imported "+name, ToastSuccess)
}

func (d *Dispatcher) fetchList(silent bool, refetch string) tea.Cmd {
	ctx, b := d.ctx, d.backend
	return func() tea.Msg {
		list, err := b.ListPatients(ctx)
		return ListLoadedMsg{Patients: list, Err: err, Silent: silent, Refetch: refetch}
	}
}

func (d *Dispatcher) fetchQR(tok cache.Token, id, name string) tea.Cmd {
	ctx, b := d.ctx, d.backend
	return func() tea.Msg {
		data, err := b.QRData(ctx, name, id)
		return QRLoadedMsg{Token: tok, ID: id, Name: name, Data: data, Err: err}
	}
}

func (d *Dispatcher) handleList(msg ListLoadedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.Err != nil {
		cmds = append(cmds, d.fail(api.OpListPatients, "", msg.Err, "Error loading data"))
	} else {
		d.state.Cache.Replace(msg.Patients)
		if !msg.Silent {
			cmds = append(cmds, d.notify("Patients Loaded", ToastSuccess))
		}
	}
	if msg.Refetch != "" {
		cmds = append(cmds, d.Select(msg.Refetch))
	}
	return tea.Batch(cmds...)
}

func (d *Dispatcher) handleDetail(msg DetailLoadedMsg) tea.Cmd {
	if !d.state.Cache.IsLatest(msg.Token) {
		d.log.Debug().Str("patient_id", msg.ID).Uint64("token", uint64(msg.Token)).Msg("dropping stale detail")
		return nil
	}
	if msg.Err != nil {
		return d.fail(api.OpPatientDetail, msg.ID, msg.Err, "Error loading patient")
	}
	if !msg.Detail.Found() {
		return d.fail(api.OpPatientDetail, msg.ID,
			&BusinessFailure{Op: api.OpPatientDetail, Message: "patient not found"}, "Patient not found")
	}

	d.state.Cache.Commit(msg.Token, msg.ID)
	d.state.Form = view.PopulateForm(&msg.Detail)
	d.state.Status = view.StatusIndicators(msg.Detail.Status)
	return d.fetchQR(msg.Token, msg.ID, msg.Detail.Name)
}

func (d *Dispatcher) handleQR(msg QRLoadedMsg) tea.Cmd {
	if !d.state.Cache.IsLatest(msg.Token) {
		return nil
	}
	if msg.Err != nil {
		return d.fail(api.OpQRData, msg.ID, msg.Err, "Error loading QR code")
	}
	if msg.Data == "" {
		d.state.QR = view.MissingQR()
		return nil
	}
	d.state.QR = view.ReadyQR(msg.Name, msg.Data, d.qrWidth)
	return nil
}

func (d *Dispatcher) handleSaved(msg SavedMsg) tea.Cmd {
	switch {
	case msg.Err != nil:
		return d.fail(api.OpSavePatient, msg.ID, msg.Err, "Error saving patient")
	case !msg.OK:
		return d.fail(api.OpSavePatient, msg.ID, &BusinessFailure{Op: api.OpSavePatient}, "Failed to save")
	}
	return tea.Batch(
		d.notify("Patient Saved Successfully", ToastSuccess),
		d.fetchList(true, msg.ID),
	)
}

func (d *Dispatcher) handleDeleted(msg DeletedMsg) tea.Cmd {
	switch {
	case msg.Err != nil:
		return d.fail(api.OpDeletePatient, msg.ID, msg.Err, "Error deleting patient")
	case !msg.OK:
		return d.fail(api.OpDeletePatient, msg.ID, &BusinessFailure{Op: api.OpDeletePatient}, "Delete failed")
	}
	d.clearSelection()
	return tea.Batch(
		d.notify("Patient Deleted", ToastSuccess),
		d.fetchList(true, ""),
	)
}

func (d *Dispatcher) handleReport(msg ReportMsg) tea.Cmd {
	if msg.Err != nil {
		return d.fail(api.OpGenerateReport, msg.ID, msg.Err, "Error calling generator")
	}
	if !msg.Result.Success {
		return d.fail(api.OpGenerateReport, msg.ID,
			&BusinessFailure{Op: api.OpGenerateReport, Message: msg.Result.Message},
			"Generation Failed: "+msg.Result.Message)
	}
	d.state.Tab = view.TabReports
	return tea.Batch(d.notify("Report Generated!", ToastSuccess), d.Select(msg.ID))
}

var actionFailures = map[string]string{
	api.OpSendEmail:     "Error sending email",
	api.OpSendWhatsApp:  "Error sending WhatsApp message",
	api.OpOpenFolder:    "Error opening folder",
	api.OpOpenDashboard: "Error opening dashboard",
}

func (d *Dispatcher) handleAction(msg ActionDoneMsg) tea.Cmd {
	if msg.Err == nil {
		d.log.Debug().Str("op", msg.Op).Str("patient_id", msg.ID).Msg("host action sent")
		return nil
	}
	text, ok := actionFailures[msg.Op]
	if !ok {
		text = "Error: " + msg.Op
	}
	return d.fail(msg.Op, msg.ID, msg.Err, text)
}

// handleStatusRefresh re-reads whatever is selected when the timer fires,
// which may no longer be the patient the message was sent for.
func (d *Dispatcher) handleStatusRefresh(msg StatusRefreshMsg) tea.Cmd {
	id, ok := d.state.Cache.Selected()
	if !ok {
		d.log.Debug().Str("patient_id", msg.ID).Msg("status refresh skipped, nothing selected")
		return nil
	}
	return d.Select(id)
}

func (d *Dispatcher) sendAndRefresh(op string, call func(context.Context, string) error) tea.Cmd {
	id, ok := d.state.Cache.Selected()
	if !ok {
		return d.reject(&ValidationError{Field: "selection", Message: "required"}, "Select patient first")
	}
	refresh := tea.Tick(d.refreshDelay, func(time.Time) tea.Msg {
		return StatusRefreshMsg{ID: id}
	})
	return tea.Batch(d.fire(op, id, call), refresh)
}

func (d *Dispatcher) fire(op, id string, call func(context.Context, string) error) tea.Cmd {
	ctx := d.ctx
	return func() tea.Msg {
		return ActionDoneMsg{Op: op, ID: id, Err: call(ctx, id)}
	}
}

func (d *Dispatcher) clearSelection() {
	d.state.Cache.Clear()
	d.state.Form = view.EmptyForm()
	d.state.Status = view.Indicators{}
	d.state.QR = view.MissingQR()
	d.state.Confirming = false
	d.state.ConfirmTarget = ""
}

// reject surfaces a failure detected before any host call.
func (d *Dispatcher) reject(err error, text string) tea.Cmd {
	d.log.Warn().Err(err).Msg(text)
	d.state.LastErr = err
	return d.notify(text, ToastError)
}

// fail surfaces a failed or refused host call.
func (d *Dispatcher) fail(op, id string, err error, text string) tea.Cmd {
	d.log.Error().Err(err).Str("op", op).Str("patient_id", id).Msg("host call failed")
	d.state.LastErr = err
	return d.notify(text, ToastError)
}

func (d *Dispatcher) notify(text string, level ToastLevel) tea.Cmd {
	d.toastSeq++
	seq := d.toastSeq
	d.state.Toast = Toast{Text: text, Level: level, Seq: seq}
	if d.toastDuration <= 0 {
		return nil
	}
	return tea.Tick(d.toastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}
