package models

import (
	"encoding/base64"
	"time"
)

// Priority is the urgency level assigned by the classifier.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every accepted priority level, most urgent first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the three accepted levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Departments suggested to the classifier. The classifier may still answer with free text.
var Departments = []string{
	"IT Services",
	"Maintenance & Facilities",
	"Academic Affairs",
	"Student Affairs",
	"Administration",
	"Library Services",
	"Hostel Management",
}

// IsSuggestedDepartment reports whether name is in the suggested department list.
func IsSuggestedDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// StudentDetails identifies the student who filed a complaint.
type StudentDetails struct {
	Name     string `json:"name" validate:"notblank"`
	Class    string `json:"class" validate:"notblank"`
	Division string `json:"division" validate:"notblank"`
	RollNo   string `json:"rollNo" validate:"notblank"`
}

// ComplaintAnalysis is the classification triple produced for a complaint.
type ComplaintAnalysis struct {
	Priority   Priority `json:"priority"`
	Category   string   `json:"category"`
	Department string   `json:"department"`
}

// AnalyzedComplaint is a classified complaint held in session memory. It is never modified after creation.
type AnalyzedComplaint struct {
	ComplaintAnalysis
	ID             string         `json:"id"`
	OriginalText   string         `json:"originalText"`
	Timestamp      time.Time      `json:"timestamp"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	StudentDetails StudentDetails `json:"studentDetails"`
}

// HasAttachment reports whether an image was submitted with the complaint.
func (c AnalyzedComplaint) HasAttachment() bool {
	return c.ImageURL != ""
}

// ImageAttachment is an image already encoded by the client.
type ImageAttachment struct {
	Base64   string `json:"base64" validate:"required,base64"`
	MimeType string `json:"mimeType" validate:"required,startswith=image/"`
}

// Bytes decodes the attachment payload.
func (a ImageAttachment) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Base64)
}

// DataURL renders the attachment as a data URI for display.
func (a ImageAttachment) DataURL() string {
	return "data:" + a.MimeType + ";base64," + a.Base64
}

// ComplaintFilter narrows the admin complaint list.
type ComplaintFilter struct {
	Priority   Priority
	Department string
	Page       int
	PageSize   int
}
