package view

import "github.com/mrsinham/patientdesk/internal/patient"

// DefaultGender is what the gender input shows when the record has none.
const DefaultGender = "Male"

// Genders are the choices offered by the gender input.
var Genders = []string{"Male", "Female", "Other"}

// Form mirrors the detail form inputs. Date shows the record's last
// modification time and is sent back as the record date on save.
type Form struct {
	ID     string
	Name   string
	Age    string
	Gender string
	Clinic string
	Doctor string
	Date   string
	Phone  string
	Email  string
	Abs    string
	Conc   string
	Trans  string
}

// EmptyForm is the form after a reset.
func EmptyForm() Form {
	return Form{Gender: DefaultGender}
}

// PopulateForm maps every field of d onto its input. A nil record yields
// the empty form.
func PopulateForm(d *patient.Detail) Form {
	if d == nil {
		return EmptyForm()
	}
	f := Form{
		ID:     d.ID,
		Name:   d.Name,
		Age:    d.Age,
		Gender: d.Gender,
		Clinic: d.Clinic,
		Doctor: d.Doctor,
		Date:   d.LastModified,
		Phone:  d.Phone,
		Email:  d.Email,
		Abs:    d.Abs,
		Conc:   d.Conc,
		Trans:  d.Trans,
	}
	if f.Gender == "" {
		f.Gender = DefaultGender
	}
	return f
}

// Detail builds the save payload from the inputs.
func (f Form) Detail() patient.Detail {
	return patient.Detail{
		ID:     f.ID,
		Name:   f.Name,
		Age:    f.Age,
		Gender: f.Gender,
		Clinic: f.Clinic,
		Doctor: f.Doctor,
		Date:   f.Date,
		Phone:  f.Phone,
		Email:  f.Email,
		Abs:    f.Abs,
		Conc:   f.Conc,
		Trans:  f.Trans,
	}
}

// Field is one labelled form value, in display order.
type Field struct {
	Key   string
	Label string
	Value string
}

// Fields lists the form for read-only display.
func (f Form) Fields() []Field {
	return []Field{
		{"id", "Patient ID", f.ID},
		{"name", "Name", f.Name},
		{"age", "Age", f.Age},
		{"gender", "Gender", f.Gender},
		{"clinic", "Clinic", f.Clinic},
		{"doctor", "Doctor", f.Doctor},
		{"date", "Last Modified", f.Date},
		{"phone", "Phone", f.Phone},
		{"email", "Email", f.Email},
		{"abs", "Abs", f.Abs},
		{"conc", "Conc", f.Conc},
		{"trans", "Trans", f.Trans},
	}
}
