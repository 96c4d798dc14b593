// Package view maps patient state to toolkit-neutral render instructions.
//
// Everything here is a pure function of its arguments: no host calls, no
// terminal types. The terminal UI draws what these functions return.
package view

import (
	"strings"

	"github.com/mrsinham/patientdesk/internal/patient"
)

// Column describes one table column.
type Column struct {
	Title string
	Width int
}

// Columns is the patient table layout.
var Columns = []Column{
	{Title: "ID", Width: 10},
	{Title: "Name", Width: 24},
	{Title: "Age", Width: 5},
	{Title: "Gender", Width: 8},
	{Title: "Date", Width: 20},
}

// Row is one rendered table row. ID is what a click selects.
type Row struct {
	ID    string
	Cells []string
}

// Rows renders list in order, one row per record.
func Rows(list []patient.Summary) []Row {
	rows := make([]Row, 0, len(list))
	for _, p := range list {
		rows = append(rows, Row{
			ID:    p.ID,
			Cells: []string{p.ID, p.Name, p.Age, p.Gender, p.Date},
		})
	}
	return rows
}

// Filter keeps the records whose name or id contains query, ignoring case.
// An empty query returns list itself.
func Filter(list []patient.Summary, query string) []patient.Summary {
	if query == "" {
		return list
	}
	q := strings.ToLower(query)
	out := make([]patient.Summary, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.ID), q) {
			out = append(out, p)
		}
	}
	return out
}
