package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for the patient editor and import fields
var Texts = map[string]HelpText{
	"id": {
		Title:       "PATIENT ID",
		Description: "Unique identifier of the record on the host.",
		Details:     "Required to save. Saving an existing ID overwrites that record.",
	},
	"name": {
		Title:       "NAME",
		Description: "Full name of the patient as printed on the report.",
		Details:     "Also names the report folder, so renaming a patient starts a new report.",
	},
	"age": {
		Title:       "AGE",
		Description: "Age in years at the time of the test.",
	},
	"gender": {
		Title:       "GENDER",
		Description: "Male, Female or Other.",
	},
	"clinic": {
		Title:       "CLINIC",
		Description: "Clinic or institution that ordered the test.",
	},
	"doctor": {
		Title:       "DOCTOR",
		Description: "Referring doctor.",
	},
	"date": {
		Title:       "LAST MODIFIED",
		Description: "Set by the host each time the record is saved.",
		Details:     "Imported records carry the study date until they are saved.",
	},
	"phone": {
		Title:       "PHONE",
		Description: "Number the WhatsApp message is sent to.",
		Details:     "International format, e.g. +15550100. Spaces and dashes are ignored.",
	},
	"email": {
		Title:       "EMAIL",
		Description: "Address the report link is emailed to.",
	},
	"abs": {
		Title:       "ABSORBANCE",
		Description: "Measured absorbance reading.",
	},
	"conc": {
		Title:       "CONCENTRATION",
		Description: "Computed concentration.",
	},
	"trans": {
		Title:       "TRANSMITTANCE",
		Description: "Measured transmittance, in percent.",
	},
	"import_path": {
		Title:       "DICOM FILE",
		Description: "Path of a .dcm file to read demographics from.",
		Details: `Fills the editor with ID, name, age, gender, clinic, doctor and date.
Which tag feeds each field is set under dicom.fields in the config file.
Nothing reaches the host until the record is saved.`,
	},
}
