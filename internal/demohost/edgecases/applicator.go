package edgecases

import (
	"math/rand/v2"

	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/util"
)

// Applicator applies edge cases to generated records
type Applicator struct {
	config Config
	rng    *rand.Rand
}

// NewApplicator creates a new edge case applicator
func NewApplicator(config Config, rng *rand.Rand) *Applicator {
	return &Applicator{config: config, rng: rng}
}

// ShouldApply returns true if the next record gets an edge case
func (a *Applicator) ShouldApply() bool {
	return a.config.IsEnabled() && a.rng.IntN(100) < a.config.Percentage
}

// SelectEdgeCaseType randomly selects which edge case type to apply
func (a *Applicator) SelectEdgeCaseType() EdgeCaseType {
	return a.config.Types[a.rng.IntN(len(a.config.Types))]
}

// Apply rewrites d with one randomly selected edge case and returns it.
// sex is the DICOM sex code (M or F) names are drawn for.
func (a *Applicator) Apply(d *patient.Detail, sex string) EdgeCaseType {
	edgeType := a.SelectEdgeCaseType()
	switch edgeType {
	case SpecialChars:
		d.Name = util.FormatPersonName(GenerateSpecialCharName(sex, a.rng))
	case LongNames:
		d.Name = util.FormatPersonName(GenerateLongPatientName(a.rng))
	case MissingFields:
		ClearFields(d, SelectFieldsToClear(a.rng, 1+a.rng.IntN(3)))
	case ExtremeAges:
		d.Age = GenerateExtremeAge(a.rng)
	case VariedIDs:
		d.ID = GenerateRandomVariedPatientID(a.rng)
	}
	return edgeType
}
