package util

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestGeneratePatientName_Format(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for i := 0; i < 50; i++ {
		for _, sex := range []string{"M", "F", "O"} {
			name := GeneratePatientName(sex, rng)
			parts := strings.Split(name, "^")
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				t.Fatalf("GeneratePatientName(%q) = %q, want LAST^First", sex, name)
			}
		}
	}
}

func TestGeneratePatientName_Deterministic(t *testing.T) {
	a := GeneratePatientName("M", rand.New(rand.NewPCG(7, 7)))
	b := GeneratePatientName("M", rand.New(rand.NewPCG(7, 7)))
	if a != b {
		t.Errorf("Same seed gave %q and %q", a, b)
	}
}

func TestFormatPersonName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"DOE^Jane", "Jane DOE"},
		{"DOE^Jane^Marie", "Jane Marie DOE"},
		{"DOE^Jane^^Dr^PhD", "Dr Jane DOE PhD"},
		{"DOE", "DOE"},
		{"  Jane Doe ", "Jane Doe"},
		{"DOE^", "DOE"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := FormatPersonName(tc.in); got != tc.want {
			t.Errorf("FormatPersonName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSexToGender(t *testing.T) {
	tests := map[string]string{
		"M":  "Male",
		"f":  "Female",
		"O ": "Other",
		"":   "",
		"X":  "",
	}
	for in, want := range tests {
		if got := SexToGender(in); got != want {
			t.Errorf("SexToGender(%q) = %q, want %q", in, got, want)
		}
	}
}
