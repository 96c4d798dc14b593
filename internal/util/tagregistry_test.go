package util

import (
	"strings"
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestGetTagByName_Valid(t *testing.T) {
	tests := []struct {
		name          string
		expectedTag   tag.Tag
		expectedScope TagScope
	}{
		// Patient level tags
		{"PatientName", tag.PatientName, ScopePatient},
		{"PatientID", tag.PatientID, ScopePatient},
		{"PatientBirthDate", tag.PatientBirthDate, ScopePatient},
		{"PatientSex", tag.PatientSex, ScopePatient},
		{"PatientAge", tag.PatientAge, ScopePatient},
		{"PatientTelephoneNumbers", tag.PatientTelephoneNumbers, ScopePatient},
		{"OtherPatientIDs", tag.OtherPatientIDs, ScopePatient},

		// Study level tags
		{"StudyDate", tag.StudyDate, ScopeStudy},
		{"StudyDescription", tag.StudyDescription, ScopeStudy},
		{"InstitutionName", tag.InstitutionName, ScopeStudy},
		{"InstitutionalDepartmentName", tag.InstitutionalDepartmentName, ScopeStudy},
		{"ReferringPhysicianName", tag.ReferringPhysicianName, ScopeStudy},
		{"PerformingPhysicianName", tag.PerformingPhysicianName, ScopeStudy},
		{"AccessionNumber", tag.AccessionNumber, ScopeStudy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := GetTagByName(tc.name)
			if err != nil {
				t.Fatalf("GetTagByName(%q) returned error: %v", tc.name, err)
			}
			if info.Tag != tc.expectedTag {
				t.Errorf("GetTagByName(%q).Tag = %v, want %v", tc.name, info.Tag, tc.expectedTag)
			}
			if info.Scope != tc.expectedScope {
				t.Errorf("GetTagByName(%q).Scope = %v, want %v", tc.name, info.Scope, tc.expectedScope)
			}
			if info.Name != tc.name {
				t.Errorf("GetTagByName(%q).Name = %q, want %q", tc.name, info.Name, tc.name)
			}
		})
	}
}

func TestGetTagByName_Invalid(t *testing.T) {
	for _, name := range []string{"InvalidTagName", "NotATag", "", "   ", "WindowCenter"} {
		t.Run(name, func(t *testing.T) {
			if _, err := GetTagByName(name); err == nil {
				t.Errorf("GetTagByName(%q) should return error for invalid tag", name)
			}
		})
	}
}

func TestGetTagByName_Suggestion(t *testing.T) {
	tests := []struct {
		typo       string
		suggestion string
	}{
		{"PatientNam", "PatientName"},
		{"PatinetName", "PatientName"},
		{"StudyDat", "StudyDate"},
		{"InstitutionNme", "InstitutionName"},
		{"ReferingPhysicianName", "ReferringPhysicianName"},
	}

	for _, tc := range tests {
		t.Run(tc.typo, func(t *testing.T) {
			_, err := GetTagByName(tc.typo)
			if err == nil {
				t.Fatalf("GetTagByName(%q) should return error", tc.typo)
			}
			if !strings.Contains(err.Error(), tc.suggestion) {
				t.Errorf("Error for %q should suggest %q, got: %v", tc.typo, tc.suggestion, err)
			}
		})
	}
}

func TestGetTagByName_CaseInsensitive(t *testing.T) {
	for _, input := range []string{"patientname", "PATIENTNAME", "pAtIeNtNaMe", " PatientName "} {
		info, err := GetTagByName(input)
		if err != nil {
			t.Fatalf("GetTagByName(%q) returned error: %v", input, err)
		}
		if info.Name != "PatientName" {
			t.Errorf("GetTagByName(%q).Name = %q, want PatientName", input, info.Name)
		}
	}
}

func TestResolveFieldMapping_Defaults(t *testing.T) {
	m, err := ResolveFieldMapping(nil)
	if err != nil {
		t.Fatalf("ResolveFieldMapping(nil) returned error: %v", err)
	}
	if len(m) != len(FormFields) {
		t.Errorf("Expected %d fields, got %d", len(FormFields), len(m))
	}
	if m["clinic"].Tag != tag.InstitutionName {
		t.Errorf("clinic should default to InstitutionName, got %s", m["clinic"].Name)
	}
	if m["name"].Tag != tag.PatientName {
		t.Errorf("name should default to PatientName, got %s", m["name"].Name)
	}
}

func TestResolveFieldMapping_Overrides(t *testing.T) {
	m, err := ResolveFieldMapping(map[string]string{"Clinic": "institutionaldepartmentname", "doctor": "PerformingPhysicianName"})
	if err != nil {
		t.Fatalf("ResolveFieldMapping returned error: %v", err)
	}
	if m["clinic"].Tag != tag.InstitutionalDepartmentName {
		t.Errorf("clinic override not applied, got %s", m["clinic"].Name)
	}
	if m["doctor"].Tag != tag.PerformingPhysicianName {
		t.Errorf("doctor override not applied, got %s", m["doctor"].Name)
	}
	if m["id"].Tag != tag.PatientID {
		t.Errorf("id should keep its default, got %s", m["id"].Name)
	}
}

func TestResolveFieldMapping_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		contains  string
	}{
		{"unknown field", map[string]string{"weight": "PatientName"}, "unknown form field"},
		{"unknown tag", map[string]string{"clinic": "InstitutionNme"}, "did you mean"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveFieldMapping(tc.overrides)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("Error %q should contain %q", err, tc.contains)
			}
		})
	}
}

func TestTagScope_String(t *testing.T) {
	tests := []struct {
		scope    TagScope
		expected string
	}{
		{ScopePatient, "Patient"},
		{ScopeStudy, "Study"},
		{TagScope(9), "Unknown"},
	}

	for _, tc := range tests {
		if tc.scope.String() != tc.expected {
			t.Errorf("TagScope.String() = %q, want %q", tc.scope.String(), tc.expected)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"PatientName", "PatinetName", 2}, // transposition counts as 2 in standard Levenshtein
	}

	for _, tc := range tests {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			result := levenshteinDistance(tc.a, tc.b)
			if result != tc.expected {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, result, tc.expected)
			}
		})
	}
}
