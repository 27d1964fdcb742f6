package dto

import "github.com/noah-isme/campus-complaints-api/internal/models"

// SubmitComplaintRequest is the payload of the complaint form.
type SubmitComplaintRequest struct {
	Text           string                  `json:"text" validate:"notblank"`
	StudentDetails models.StudentDetails   `json:"studentDetails"`
	Image          *models.ImageAttachment `json:"image,omitempty" validate:"omitempty"`

	// ClientKey identifies the caller for quota accounting. Set by the HTTP layer, never by the body.
	ClientKey string `json:"-"`
}

// SubmitComplaintResult is returned after a successful submission.
type SubmitComplaintResult struct {
	Complaint    models.AnalyzedComplaint `json:"complaint"`
	Notification models.Notification      `json:"notification"`
	ActiveView   models.View              `json:"activeView"`
}

// SetViewRequest switches the active view.
type SetViewRequest struct {
	View models.View `json:"view" validate:"required,oneof=student admin"`
}

// SetViewResult echoes the view now active.
type SetViewResult struct {
	ActiveView models.View `json:"activeView"`
}

// ExportFormat names a download format for the admin list.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// DepartmentList enumerates suggested departments and priority levels for form hints.
type DepartmentList struct {
	Departments []string          `json:"departments"`
	Priorities  []models.Priority `json:"priorities"`
}
