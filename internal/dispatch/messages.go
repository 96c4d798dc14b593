package dispatch

import (
	"github.com/mrsinham/patientdesk/internal/cache"
	"github.com/mrsinham/patientdesk/internal/patient"
)

// ListLoadedMsg carries the answer to a list fetch. Silent reloads follow
// a mutation and only toast on failure. Refetch, when set, is the id whose
// detail is reloaded once the list is in.
type ListLoadedMsg struct {
	Patients []patient.Summary
	Err      error
	Silent   bool
	Refetch  string
}

// DetailLoadedMsg carries the answer to a detail fetch for Token.
type DetailLoadedMsg struct {
	Token  cache.Token
	ID     string
	Detail patient.Detail
	Err    error
}

// QRLoadedMsg carries the QR reference fetched after a detail load.
type QRLoadedMsg struct {
	Token cache.Token
	ID    string
	Name  string
	Data  string
	Err   error
}

// SavedMsg is the result of a save.
type SavedMsg struct {
	ID  string
	OK  bool
	Err error
}

// DeletedMsg is the result of a delete.
type DeletedMsg struct {
	ID  string
	OK  bool
	Err error
}

// ReportMsg is the result of report generation.
type ReportMsg struct {
	ID     string
	Result patient.ReportResult
	Err    error
}

// ActionDoneMsg is the result of a fire-and-forget host action.
type ActionDoneMsg struct {
	Op  string
	ID  string
	Err error
}

// StatusRefreshMsg fires after an email or WhatsApp send to re-read the
// flags of ID.
type StatusRefreshMsg struct {
	ID string
}

// ToastExpiredMsg hides the toast with sequence Seq if it is still shown.
type ToastExpiredMsg struct {
	Seq uint64
}

// ImportedMsg is the result of reading a record from a local file.
type ImportedMsg struct {
	Path   string
	Detail patient.Detail
	Err    error
}
