package dispatch

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrsinham/patientdesk/internal/api"
	"github.com/mrsinham/patientdesk/internal/demohost"
	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/view"
)

// deskContext holds state for a single scenario
type deskContext struct {
	reportFailure string
	store         *demohost.Store
	srv           *httptest.Server
	d             *Dispatcher
}

func TestFeatures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	dc := &deskContext{}

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if dc.srv != nil {
			dc.srv.Close()
		}
		return ctx, nil
	})

	sc.Step(`^report generation fails with "([^"]*)"$`, dc.reportGenerationFailsWith)
	sc.Step(`^a demo host with patients:$`, dc.aDemoHostWithPatients)
	sc.Step(`^the patient list is loaded$`, dc.thePatientListIsLoaded)

	sc.Step(`^I filter by "([^"]*)"$`, dc.iFilterBy)
	sc.Step(`^I select "([^"]*)"$`, dc.iSelect)
	sc.Step(`^I change "([^"]*)" to "([^"]*)"$`, dc.iChangeTo)
	sc.Step(`^I save$`, dc.run(func(d *Dispatcher) error { return settle(d, d.Save()) }))
	sc.Step(`^I start a new patient$`, dc.run(func(d *Dispatcher) error { return settle(d, d.New()) }))
	sc.Step(`^I delete and confirm$`, dc.iDelete(true))
	sc.Step(`^I delete and cancel$`, dc.iDelete(false))
	sc.Step(`^I generate the report$`, dc.run(func(d *Dispatcher) error { return settle(d, d.Generate()) }))
	sc.Step(`^I send the report by email$`, dc.run(func(d *Dispatcher) error { return settle(d, d.SendEmail()) }))
	sc.Step(`^I send the report by WhatsApp$`, dc.run(func(d *Dispatcher) error { return settle(d, d.SendWhatsApp()) }))

	sc.Step(`^the toast reads "([^"]*)"$`, dc.theToastReads)
	sc.Step(`^the table shows "([^"]*)"$`, dc.theTableShows)
	sc.Step(`^the form shows "([^"]*)" as "([^"]*)"$`, dc.theFormShowsAs)
	sc.Step(`^the (saved|generated|emailed|whatsapp) indicator is (on|off)$`, dc.theIndicatorIs)
	sc.Step(`^"([^"]*)" is selected$`, dc.isSelected)
	sc.Step(`^nothing is selected$`, dc.nothingIsSelected)
	sc.Step(`^the active tab is "([^"]*)"$`, dc.theActiveTabIs)
	sc.Step(`^the QR preview reads "([^"]*)"$`, dc.theQRPreviewReads)
	sc.Step(`^the QR preview is empty$`, dc.theQRPreviewIsEmpty)
}

func (dc *deskContext) reportGenerationFailsWith(msg string) error {
	if dc.store != nil {
		return fmt.Errorf("report failure must be set before the host starts")
	}
	dc.reportFailure = msg
	return nil
}

func (dc *deskContext) aDemoHostWithPatients(table *godog.Table) error {
	dc.store = demohost.NewStore(demohost.Options{
		Seed:          1,
		ReportFailure: dc.reportFailure,
		Logger:        zerolog.Nop(),
		Now:           func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) },
	})

	if len(table.Rows) == 0 {
		return fmt.Errorf("patient table is empty")
	}
	header := table.Rows[0].Cells
	for _, row := range table.Rows[1:] {
		values := map[string]string{}
		for i, cell := range row.Cells {
			values[header[i].Value] = cell.Value
		}
		d := patient.Detail{
			ID:     values["id"],
			Name:   values["name"],
			Age:    values["age"],
			Gender: values["gender"],
			Email:  values["email"],
			Phone:  values["phone"],
		}
		if !dc.store.Save(d) {
			return fmt.Errorf("seeding patient %q refused", d.ID)
		}
	}

	dc.srv = httptest.NewServer(demohost.NewRouter(dc.store, zerolog.Nop()))
	client, err := api.NewClient(dc.srv.URL)
	if err != nil {
		return err
	}
	dc.d = New(client,
		WithToastDuration(0),
		WithStatusRefreshDelay(time.Millisecond),
		WithQRWidth(20),
	)
	return nil
}

func (dc *deskContext) run(step func(d *Dispatcher) error) func() error {
	return func() error {
		if dc.d == nil {
			return fmt.Errorf("no demo host running")
		}
		return step(dc.d)
	}
}

func (dc *deskContext) thePatientListIsLoaded() error {
	return dc.run(func(d *Dispatcher) error { return settle(d, d.Load()) })()
}

func (dc *deskContext) iFilterBy(q string) error {
	return dc.run(func(d *Dispatcher) error {
		d.SetQuery(q)
		return nil
	})()
}

func (dc *deskContext) iSelect(id string) error {
	return dc.run(func(d *Dispatcher) error { return settle(d, d.Select(id)) })()
}

func (dc *deskContext) iDelete(confirm bool) func() error {
	return dc.run(func(d *Dispatcher) error {
		if err := settle(d, d.RequestDelete()); err != nil {
			return err
		}
		return settle(d, d.ConfirmDelete(confirm))
	})
}

func (dc *deskContext) iChangeTo(field, value string) error {
	return dc.run(func(d *Dispatcher) error {
		f := d.State().Form
		if err := setField(&f, field, value); err != nil {
			return err
		}
		d.EditForm(f)
		return nil
	})()
}

func setField(f *view.Form, key, value string) error {
	targets := map[string]*string{
		"id": &f.ID, "name": &f.Name, "age": &f.Age, "gender": &f.Gender,
		"clinic": &f.Clinic, "doctor": &f.Doctor, "date": &f.Date,
		"phone": &f.Phone, "email": &f.Email,
		"abs": &f.Abs, "conc": &f.Conc, "trans": &f.Trans,
	}
	p, ok := targets[key]
	if !ok {
		return fmt.Errorf("unknown form field %q", key)
	}
	*p = value
	return nil
}

func (dc *deskContext) theToastReads(want string) error {
	if got := dc.d.State().Toast.Text; got != want {
		return fmt.Errorf("toast = %q, want %q", got, want)
	}
	return nil
}

func (dc *deskContext) theTableShows(want string) error {
	var ids []string
	for _, r := range dc.d.Rows() {
		ids = append(ids, r.ID)
	}
	if got := strings.Join(ids, ", "); got != want {
		return fmt.Errorf("table = %q, want %q", got, want)
	}
	return nil
}

func (dc *deskContext) theFormShowsAs(key, want string) error {
	for _, f := range dc.d.State().Form.Fields() {
		if f.Key != key {
			continue
		}
		if f.Value != want {
			return fmt.Errorf("form %s = %q, want %q", key, f.Value, want)
		}
		return nil
	}
	return fmt.Errorf("unknown form field %q", key)
}

func (dc *deskContext) theIndicatorIs(name, state string) error {
	s := dc.d.State().Status
	lights := map[string]bool{
		"saved":     s.Saved,
		"generated": s.Generated,
		"emailed":   s.Emailed,
		"whatsapp":  s.WhatsApp,
	}
	if want := state == "on"; lights[name] != want {
		return fmt.Errorf("%s indicator is %v, want %s", name, lights[name], state)
	}
	return nil
}

func (dc *deskContext) isSelected(want string) error {
	got, ok := dc.d.State().Cache.Selected()
	if !ok || got != want {
		return fmt.Errorf("selection = %q (%v), want %q", got, ok, want)
	}
	if id := dc.d.State().Form.ID; id != want {
		return fmt.Errorf("form shows %q, want %q", id, want)
	}
	return nil
}

func (dc *deskContext) nothingIsSelected() error {
	if got, ok := dc.d.State().Cache.Selected(); ok {
		return fmt.Errorf("%q is still selected", got)
	}
	return nil
}

func (dc *deskContext) theActiveTabIs(want string) error {
	if got := dc.d.State().Tab.String(); got != want {
		return fmt.Errorf("tab = %q, want %q", got, want)
	}
	return nil
}

func (dc *deskContext) theQRPreviewReads(want string) error {
	qr := dc.d.State().QR
	if !qr.Ready || qr.Status != want {
		return fmt.Errorf("QR preview = %q (ready %v), want %q", qr.Status, qr.Ready, want)
	}
	if len(qr.Lines) == 0 {
		return fmt.Errorf("QR preview has no image")
	}
	return nil
}

func (dc *deskContext) theQRPreviewIsEmpty() error {
	if qr := dc.d.State().QR; qr.Ready {
		return fmt.Errorf("QR preview shows %q", qr.Status)
	}
	return nil
}
