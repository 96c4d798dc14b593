// Package util provides helpers shared by the DICOM importer and the demo host.
package util

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagScope represents the DICOM hierarchy level a demographic tag lives at.
type TagScope int

const (
	// ScopePatient indicates tags describing the patient.
	ScopePatient TagScope = iota
	// ScopeStudy indicates tags describing the visit that produced the file.
	ScopeStudy
)

// String returns the string representation of a TagScope.
func (s TagScope) String() string {
	switch s {
	case ScopePatient:
		return "Patient"
	case ScopeStudy:
		return "Study"
	default:
		return "Unknown"
	}
}

// TagInfo contains information about a DICOM tag, including its scope.
type TagInfo struct {
	Name  string
	Tag   tag.Tag
	Scope TagScope
}

// tagRegistry maps lowercase tag names to their TagInfo.
var tagRegistry = map[string]TagInfo{
	// Patient level tags
	"patientname":             {Name: "PatientName", Tag: tag.PatientName, Scope: ScopePatient},
	"patientid":               {Name: "PatientID", Tag: tag.PatientID, Scope: ScopePatient},
	"patientbirthdate":        {Name: "PatientBirthDate", Tag: tag.PatientBirthDate, Scope: ScopePatient},
	"patientsex":              {Name: "PatientSex", Tag: tag.PatientSex, Scope: ScopePatient},
	"patientage":              {Name: "PatientAge", Tag: tag.PatientAge, Scope: ScopePatient},
	"patienttelephonenumbers": {Name: "PatientTelephoneNumbers", Tag: tag.PatientTelephoneNumbers, Scope: ScopePatient},
	"otherpatientids":         {Name: "OtherPatientIDs", Tag: tag.OtherPatientIDs, Scope: ScopePatient},

	// Study level tags
	"studydate":                   {Name: "StudyDate", Tag: tag.StudyDate, Scope: ScopeStudy},
	"studydescription":            {Name: "StudyDescription", Tag: tag.StudyDescription, Scope: ScopeStudy},
	"institutionname":             {Name: "InstitutionName", Tag: tag.InstitutionName, Scope: ScopeStudy},
	"institutionaldepartmentname": {Name: "InstitutionalDepartmentName", Tag: tag.InstitutionalDepartmentName, Scope: ScopeStudy},
	"referringphysicianname":      {Name: "ReferringPhysicianName", Tag: tag.ReferringPhysicianName, Scope: ScopeStudy},
	"performingphysicianname":     {Name: "PerformingPhysicianName", Tag: tag.PerformingPhysicianName, Scope: ScopeStudy},
	"accessionnumber":             {Name: "AccessionNumber", Tag: tag.AccessionNumber, Scope: ScopeStudy},
}

// FormFields are the patient form fields an import can fill.
var FormFields = []string{"id", "name", "age", "gender", "date", "clinic", "doctor", "phone"}

// defaultFieldTags is the tag feeding each form field unless overridden.
var defaultFieldTags = map[string]string{
	"id":     "PatientID",
	"name":   "PatientName",
	"age":    "PatientAge",
	"gender": "PatientSex",
	"date":   "StudyDate",
	"clinic": "InstitutionName",
	"doctor": "ReferringPhysicianName",
	"phone":  "PatientTelephoneNumbers",
}

// GetTagByName returns TagInfo for a given tag name.
// The lookup is case-insensitive. If the tag is not found, an error is returned
// with a suggestion for the closest matching tag name (using Levenshtein distance).
func GetTagByName(name string) (TagInfo, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))

	if info, ok := tagRegistry[normalizedName]; ok {
		return info, nil
	}

	suggestion := findClosestTagName(normalizedName)
	if suggestion != "" {
		return TagInfo{}, fmt.Errorf("unknown tag %q, did you mean %q?", name, suggestion)
	}

	return TagInfo{}, fmt.Errorf("unknown tag %q", name)
}

// ResolveFieldMapping returns the tag feeding every form field, with
// overrides (form field -> tag name) applied on top of the defaults.
func ResolveFieldMapping(overrides map[string]string) (map[string]TagInfo, error) {
	names := make(map[string]string, len(defaultFieldTags))
	for field, name := range defaultFieldTags {
		names[field] = name
	}
	for field, name := range overrides {
		field = strings.ToLower(strings.TrimSpace(field))
		if _, ok := defaultFieldTags[field]; !ok {
			return nil, fmt.Errorf("unknown form field %q (valid: %s)", field, strings.Join(FormFields, ", "))
		}
		names[field] = name
	}

	out := make(map[string]TagInfo, len(names))
	fields := make([]string, 0, len(names))
	for field := range names {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		info, err := GetTagByName(names[field])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		out[field] = info
	}
	return out, nil
}

// findClosestTagName finds the closest matching tag name using Levenshtein distance.
// Returns empty string if no close match is found (distance > 5).
func findClosestTagName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	keys := make([]string, 0, len(tagRegistry))
	for key := range tagRegistry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		distance := levenshteinDistance(input, key)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = tagRegistry[key].Name
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance is the minimum number of single-character edits
// turning a into b.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
