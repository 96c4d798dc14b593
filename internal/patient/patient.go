// Package patient holds the records exchanged with the patient-records host.
package patient

// Summary is the list projection of a patient, used for the table.
type Summary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Date   string `json:"date"`
}

// Detail is the full patient record shown in the detail form.
type Detail struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Age          string       `json:"age"`
	Gender       string       `json:"gender"`
	Date         string       `json:"date"`
	Clinic       string       `json:"clinic"`
	Doctor       string       `json:"doctor"`
	LastModified string       `json:"last_modified"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Abs          string       `json:"abs"`
	Conc         string       `json:"conc"`
	Trans        string       `json:"trans"`
	Status       *StatusFlags `json:"status,omitempty"`
}

// Found reports whether the host returned an actual record. The host
// answers unknown ids with an empty object.
func (d Detail) Found() bool { return d.ID != "" }

// Summary projects the detail onto its list columns.
func (d Detail) Summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, Age: d.Age, Gender: d.Gender, Date: d.Date}
}

// StatusFlags tracks what happened to a record. The flags are independent.
type StatusFlags struct {
	Saved     bool `json:"saved"`
	Generated bool `json:"generated"`
	Emailed   bool `json:"emailed"`
	WhatsApp  bool `json:"whatsapp"`
}

// ReportResult is the host's answer to a report generation request.
type ReportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
