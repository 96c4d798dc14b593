package view

import "github.com/mrsinham/patientdesk/internal/patient"

// Indicators are the four status lights. There is no combined state.
type Indicators struct {
	Saved     bool
	Generated bool
	Emailed   bool
	WhatsApp  bool
}

// Indicator is one labelled light, in display order.
type Indicator struct {
	Label  string
	Active bool
}

// StatusIndicators maps the status flags onto the lights. A nil status
// turns all of them off.
func StatusIndicators(s *patient.StatusFlags) Indicators {
	if s == nil {
		return Indicators{}
	}
	return Indicators{
		Saved:     s.Saved,
		Generated: s.Generated,
		Emailed:   s.Emailed,
		WhatsApp:  s.WhatsApp,
	}
}

// List returns the lights in display order.
func (i Indicators) List() []Indicator {
	return []Indicator{
		{"Saved", i.Saved},
		{"Generated", i.Generated},
		{"Emailed", i.Emailed},
		{"WhatsApp", i.WhatsApp},
	}
}
