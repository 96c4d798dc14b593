package edgecases

import "math/rand/v2"

// MaxNameLength is the longest name a generated record gets.
const MaxNameLength = 64

var specialCharFirstNamesMale = []string{
	"Jean-Pierre", "François", "André", "José", "Ángel",
	"Søren", "Björn", "Łukasz", "Jürgen", "O'Brien",
}

var specialCharFirstNamesFemale = []string{
	"Marie-Claire", "Françoise", "Éléonore", "María", "Ángela",
	"Siân", "Zoë", "Renée", "Hélène", "O'Hara",
}

var specialCharLastNames = []string{
	"Müller-Schmidt", "O'Connor", "D'Agostino", "García-López",
	"Björnsson", "Østergaard", "Çelik", "Škvorecký",
	"González", "Pérez-Rodríguez",
}

var longLastNames = []string{
	"ALEXANDROPOULOSWILLIAMSONBERG",
	"VANDENBERGHEMONTGOMERYSMITH",
	"CHRISTODOULOPOULOSSMITHBAUER",
	"SCHWARZENEGGERBAUERWILLIAMS",
	"MCCARTHYWILKINSONTHOMPSON",
}

var longFirstNames = []string{
	"ALEXANDERMAXIMILIANWILLIAM",
	"CHRISTOPHERJOHNATHANMICHAEL",
	"ELIZABETHCATHERINEANNAMARIE",
	"MARGARETISABELLAVICTORIAJANE",
	"BENJAMINFREDERICKNATHANJOHN",
}

// GenerateSpecialCharName generates a FAMILY^Given name with accents,
// apostrophes and hyphens
func GenerateSpecialCharName(sex string, rng *rand.Rand) string {
	var firstName string
	if sex == "F" {
		firstName = specialCharFirstNamesFemale[rng.IntN(len(specialCharFirstNamesFemale))]
	} else {
		firstName = specialCharFirstNamesMale[rng.IntN(len(specialCharFirstNamesMale))]
	}
	lastName := specialCharLastNames[rng.IntN(len(specialCharLastNames))]
	return lastName + "^" + firstName
}

// GenerateLongPatientName generates a FAMILY^Given name close to MaxNameLength
func GenerateLongPatientName(rng *rand.Rand) string {
	lastName := longLastNames[rng.IntN(len(longLastNames))]
	firstName := longFirstNames[rng.IntN(len(longFirstNames))]
	name := lastName + "^" + firstName
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}
	return name
}
