// Package dicom reads patient demographics out of DICOM files so a record
// can be pre-filled from an existing study.
package dicom

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/util"
)

const dicomDateLayout = "20060102"

// ImportDemographics parses the header of the DICOM file at path and maps
// it onto a patient record. fields overrides which tag feeds a form field
// (form field -> tag name); nil keeps the defaults.
func ImportDemographics(path string, fields map[string]string) (patient.Detail, error) {
	return importAt(path, fields, time.Now())
}

func importAt(path string, fields map[string]string, today time.Time) (patient.Detail, error) {
	mapping, err := util.ResolveFieldMapping(fields)
	if err != nil {
		return patient.Detail{}, fmt.Errorf("dicom field mapping: %w", err)
	}

	ds, err := parseDICOMTolerant(path)
	if err != nil {
		return patient.Detail{}, fmt.Errorf("parse %s: %w", path, err)
	}

	value := func(field string) string {
		return getStringValue(ds, mapping[field].Tag)
	}

	d := patient.Detail{
		ID:     value("id"),
		Name:   util.FormatPersonName(value("name")),
		Gender: util.SexToGender(value("gender")),
		Clinic: value("clinic"),
		Doctor: util.FormatPersonName(value("doctor")),
		Phone:  value("phone"),
		Date:   formatDate(value("date")),
	}
	if d.ID == "" {
		return patient.Detail{}, fmt.Errorf("%s has no %s", path, mapping["id"].Name)
	}

	d.Age = parseAgeString(value("age"))
	if d.Age == "" {
		at := today
		if studied, err := time.Parse(dicomDateLayout, getStringValue(ds, tag.StudyDate)); err == nil {
			at = studied
		}
		d.Age = ageFromBirthDate(getStringValue(ds, tag.PatientBirthDate), at)
	}
	return d, nil
}

// getStringValue safely extracts a string value from a dataset
func getStringValue(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil {
		return ""
	}
	return strings.Trim(elem.Value.String(), " []")
}

// parseDICOMTolerant parses a DICOM file element-by-element, tolerating errors
// in individual elements (e.g., malformed VR lengths).
// It collects all successfully parsed elements and returns them as a dataset.
func parseDICOMTolerant(path string) (dicom.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dicom.Dataset{}, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return dicom.Dataset{}, err
	}

	p, err := dicom.NewParser(f, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return dicom.Dataset{}, err
	}

	var elements []*dicom.Element
	for {
		elem, err := p.Next()
		if err != nil {
			// Stop on any error - we've collected what we can
			break
		}
		elements = append(elements, elem)
	}

	if len(elements) == 0 {
		return dicom.Dataset{}, fmt.Errorf("no elements parsed")
	}

	ds := dicom.Dataset{Elements: elements}
	meta := p.GetMetadata()
	ds.Elements = append(meta.Elements, ds.Elements...)

	return ds, nil
}

// formatDate turns a DICOM DA value into YYYY-MM-DD. Anything unparsable
// is kept verbatim.
func formatDate(da string) string {
	t, err := time.Parse(dicomDateLayout, da)
	if err != nil {
		return da
	}
	return t.Format(time.DateOnly)
}

// parseAgeString reads a DICOM AS value ("034Y", "006M") as whole years.
func parseAgeString(as string) string {
	if len(as) != 4 {
		return ""
	}
	n, err := strconv.Atoi(as[:3])
	if err != nil {
		return ""
	}
	switch as[3] {
	case 'Y', 'y':
		return strconv.Itoa(n)
	case 'M', 'm', 'W', 'w', 'D', 'd':
		return "0"
	}
	return ""
}

// ageFromBirthDate returns the age in full years at the given date, or ""
// if the birth date cannot be read.
func ageFromBirthDate(da string, at time.Time) string {
	born, err := time.Parse(dicomDateLayout, da)
	if err != nil || born.After(at) {
		return ""
	}
	years := at.Year() - born.Year()
	if at.Month() < born.Month() || (at.Month() == born.Month() && at.Day() < born.Day()) {
		years--
	}
	return strconv.Itoa(years)
}
