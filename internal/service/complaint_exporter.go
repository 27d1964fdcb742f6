package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/campus-complaints-api/internal/dto"
	"github.com/noah-isme/campus-complaints-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaints-api/pkg/errors"
	"github.com/noah-isme/campus-complaints-api/pkg/export"
)

var exportHeaders = []string{"Submitted", "Category", "Priority", "Department", "Student", "Roll No", "Class", "Division", "Attachment"}

var exportColumnWeights = []float64{3, 5, 1.6, 3, 3, 1.6, 1.4, 1.4, 1.6}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, widths []float64) ([]byte, error)
}

// ComplaintExporter renders a session's complaint list for download.
type ComplaintExporter struct {
	csv csvRenderer
	pdf pdfRenderer
}

// NewComplaintExporter uses the stock CSV and PDF renderers.
func NewComplaintExporter() *ComplaintExporter {
	return &ComplaintExporter{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// Export renders complaints in the requested format. generatedAt stamps the file name.
func (e *ComplaintExporter) Export(complaints []models.AnalyzedComplaint, format dto.ExportFormat, generatedAt time.Time) (*dto.ExportFile, error) {
	data := complaintDataset(complaints)
	stamp := generatedAt.UTC().Format("20060102-150405")

	switch format {
	case dto.ExportCSV, "":
		body, err := e.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &dto.ExportFile{Filename: fmt.Sprintf("complaints-%s.csv", stamp), ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case dto.ExportPDF:
		body, err := e.pdf.Render(data, "Student Complaints", exportColumnWeights)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &dto.ExportFile{Filename: fmt.Sprintf("complaints-%s.pdf", stamp), ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func complaintDataset(complaints []models.AnalyzedComplaint) export.Dataset {
	rows := make([]map[string]string, 0, len(complaints))
	for _, c := range complaints {
		attachment := "No"
		if c.HasAttachment() {
			attachment = "Yes"
		}
		rows = append(rows, map[string]string{
			"Submitted":  c.Timestamp.UTC().Format("2006-01-02 15:04"),
			"Category":   c.Category,
			"Priority":   string(c.Priority),
			"Department": c.Department,
			"Student":    c.StudentDetails.Name,
			"Roll No":    c.StudentDetails.RollNo,
			"Class":      c.StudentDetails.Class,
			"Division":   c.StudentDetails.Division,
			"Attachment": attachment,
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
