package edgecases

import (
	"math/rand/v2"
	"strconv"

	"github.com/mrsinham/patientdesk/internal/patient"
)

// OptionalFields lists the record fields that may be left blank
var OptionalFields = []string{"clinic", "doctor", "phone", "email", "abs", "conc", "trans"}

// SelectFieldsToClear randomly selects count optional fields
func SelectFieldsToClear(rng *rand.Rand, count int) []string {
	if count >= len(OptionalFields) {
		return OptionalFields
	}
	// Fisher-Yates shuffle and take first count
	indices := make([]int, len(OptionalFields))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}
	result := make([]string, count)
	for i := 0; i < count; i++ {
		result[i] = OptionalFields[indices[i]]
	}
	return result
}

// ClearFields blanks the named fields of d. Unknown names are ignored.
func ClearFields(d *patient.Detail, fields []string) {
	for _, f := range fields {
		switch f {
		case "clinic":
			d.Clinic = ""
		case "doctor":
			d.Doctor = ""
		case "phone":
			d.Phone = ""
		case "email":
			d.Email = ""
		case "abs":
			d.Abs = ""
		case "conc":
			d.Conc = ""
		case "trans":
			d.Trans = ""
		}
	}
}

// GenerateExtremeAge returns a newborn age or one past a hundred
func GenerateExtremeAge(rng *rand.Rand) string {
	if rng.IntN(2) == 0 {
		return strconv.Itoa(rng.IntN(2))
	}
	return strconv.Itoa(100 + rng.IntN(16))
}
