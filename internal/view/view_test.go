package view

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/mrsinham/patientdesk/internal/patient"
)

var samplePatients = []patient.Summary{
	{ID: "P1", Name: "John", Age: "40", Gender: "Male", Date: "2026-01-01"},
	{ID: "P2", Name: "Major Jones", Age: "61", Gender: "Male", Date: "2026-02-01"},
	{ID: "P3", Name: "Amy", Age: "29", Gender: "Female", Date: ""},
	{ID: "JO-7", Name: "Zed", Age: "50", Gender: "Other", Date: "2026-03-01"},
}

func TestRows_OneRowPerRecordInOrder(t *testing.T) {
	rows := Rows(samplePatients)
	if len(rows) != len(samplePatients) {
		t.Fatalf("Expected %d rows, got %d", len(samplePatients), len(rows))
	}
	for i, r := range rows {
		p := samplePatients[i]
		want := []string{p.ID, p.Name, p.Age, p.Gender, p.Date}
		if r.ID != p.ID || !reflect.DeepEqual(r.Cells, want) {
			t.Errorf("Row %d = %+v, want id %s cells %v", i, r, p.ID, want)
		}
		if len(r.Cells) != len(Columns) {
			t.Errorf("Row %d has %d cells, want %d", i, len(r.Cells), len(Columns))
		}
	}
}

func TestRows_Empty(t *testing.T) {
	if rows := Rows(nil); len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestFilter_EmptyQueryReturnsListUnchanged(t *testing.T) {
	lists := [][]patient.Summary{nil, {}, samplePatients, samplePatients[:1]}
	for _, l := range lists {
		got := Filter(l, "")
		if !reflect.DeepEqual(Rows(got), Rows(l)) {
			t.Errorf("Filter(%v, \"\") = %v", l, got)
		}
	}
}

func TestFilter_CaseInsensitiveNameOrID(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"jo", []string{"P1", "P2", "JO-7"}},
		{"JO", []string{"P1", "P2", "JO-7"}},
		{"amy", []string{"P3"}},
		{"p3", []string{"P3"}},
		{"nobody", []string{}},
	}

	for _, tc := range tests {
		got := Filter(samplePatients, tc.query)
		ids := []string{}
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		if !reflect.DeepEqual(ids, tc.want) {
			t.Errorf("Filter(%q) ids = %v, want %v", tc.query, ids, tc.want)
		}
	}
}

func TestPopulateForm_MapsEveryField(t *testing.T) {
	d := &patient.Detail{
		ID: "P1", Name: "Ann", Age: "34", Gender: "Female", Date: "ignored",
		Clinic: "North", Doctor: "Dr. Who", LastModified: "2026-05-01 10:00:00",
		Phone: "+123", Email: "ann@example.com", Abs: "0.4", Conc: "12", Trans: "98",
	}

	f := PopulateForm(d)
	want := Form{
		ID: "P1", Name: "Ann", Age: "34", Gender: "Female", Clinic: "North", Doctor: "Dr. Who",
		Date: "2026-05-01 10:00:00", Phone: "+123", Email: "ann@example.com", Abs: "0.4", Conc: "12", Trans: "98",
	}
	if f != want {
		t.Errorf("PopulateForm = %+v, want %+v", f, want)
	}
}

func TestPopulateForm_Defaults(t *testing.T) {
	if f := PopulateForm(&patient.Detail{ID: "P1"}); f.Gender != "Male" || f.Name != "" {
		t.Errorf("Expected gender default Male and empty name, got %+v", f)
	}
	if f := PopulateForm(nil); f != EmptyForm() {
		t.Errorf("PopulateForm(nil) = %+v, want empty form", f)
	}
}

func TestForm_DetailSendsDateInput(t *testing.T) {
	f := Form{ID: "P1", Name: "Ann", Gender: "Female", Date: "2026-05-01"}
	d := f.Detail()
	if d.Date != "2026-05-01" || d.LastModified != "" {
		t.Errorf("Expected date input in Date, got %+v", d)
	}
	if d.Status != nil {
		t.Error("Save payload must not carry status")
	}
}

func TestStatusIndicators(t *testing.T) {
	if got := StatusIndicators(nil); got != (Indicators{}) {
		t.Errorf("nil status should clear all lights, got %+v", got)
	}

	got := StatusIndicators(&patient.StatusFlags{Saved: true, WhatsApp: true})
	want := Indicators{Saved: true, WhatsApp: true}
	if got != want {
		t.Errorf("StatusIndicators = %+v, want %+v", got, want)
	}

	list := got.List()
	if len(list) != 4 || list[0].Label != "Saved" || !list[0].Active || list[1].Active {
		t.Errorf("Unexpected indicator list %+v", list)
	}
}

func TestTabAndTheme(t *testing.T) {
	titles := map[Tab]string{
		TabDashboard: "Patient Management",
		TabReports:   "Reports & Actions",
		TabSettings:  "Settings",
	}
	for tab, title := range titles {
		if tab.Title() != title {
			t.Errorf("%s title = %q, want %q", tab, tab.Title(), title)
		}
	}

	if ParseTheme("dark") != ThemeDark || ParseTheme("neon") != ThemeLight {
		t.Error("ParseTheme mismatch")
	}
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Error("Toggle mismatch")
	}
}

// checkerURI builds a 4x4 PNG whose left half is black.
func checkerURI(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestReadyQR_RendersHalfBlocks(t *testing.T) {
	p := ReadyQR("Ann", checkerURI(t), 4)

	if !p.Ready || p.Status != "Report Ready for Ann" {
		t.Errorf("Unexpected preview header %+v", p)
	}
	if len(p.Lines) != 2 {
		t.Fatalf("Expected 2 lines for a 4x4 image, got %d", len(p.Lines))
	}
	for _, line := range p.Lines {
		if line != "██  " {
			t.Errorf("Line = %q, want %q", line, "██  ")
		}
	}
}

func TestReadyQR_NonDataReference(t *testing.T) {
	p := ReadyQR("Ann", "/srv/qr/P1.png", 20)
	if !p.Ready || len(p.Lines) != 0 {
		t.Errorf("Expected ready preview without lines, got %+v", p)
	}
	if !strings.Contains(p.Note, "/srv/qr/P1.png") {
		t.Errorf("Note should name the reference, got %q", p.Note)
	}
}

func TestMissingQR(t *testing.T) {
	p := MissingQR()
	if p.Ready || p.Status != "" || p.Note != QRMissingMessage {
		t.Errorf("Unexpected missing preview %+v", p)
	}
}

func TestDecodeDataURI_Errors(t *testing.T) {
	for _, ref := range []string{"", "data:text/plain;base64,AA==", "data:image/png,raw", "data:image/png;base64,!!!"} {
		if _, err := DecodeDataURI(ref); err == nil {
			t.Errorf("DecodeDataURI(%q) should fail", ref)
		}
	}
}
