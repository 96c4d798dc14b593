package dispatch

import (
	"github.com/mrsinham/patientdesk/internal/cache"
	"github.com/mrsinham/patientdesk/internal/view"
)

// ToastLevel colours the toast line.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// Toast is the single visible notification. Seq grows with every toast so
// an expiry timer can tell whether its toast is still the one shown.
type Toast struct {
	Text  string
	Level ToastLevel
	Seq   uint64
}

// Visible reports whether a toast is currently shown.
func (t Toast) Visible() bool {
	return t.Text != ""
}

// State is everything the terminal UI renders. It is owned by the
// Dispatcher and only changed from the UI loop.
type State struct {
	Cache *cache.Cache

	// Query is the client-side filter applied to the cached list.
	Query string

	Form   view.Form
	Status view.Indicators
	QR     view.QRPreview

	Tab   view.Tab
	Theme view.Theme
	Toast Toast

	// Confirming is set between RequestDelete and ConfirmDelete.
	Confirming    bool
	ConfirmTarget string

	// LastErr is the last error surfaced as a toast.
	LastErr error
}

func newState() State {
	return State{
		Cache: cache.New(),
		Form:  view.EmptyForm(),
		QR:    view.MissingQR(),
		Tab:   view.TabDashboard,
		Theme: view.ThemeLight,
	}
}
