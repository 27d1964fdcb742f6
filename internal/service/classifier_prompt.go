package service

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/noah-isme/campus-complaints-api/internal/models"
)

const classificationPrompt = `
You are a highly efficient college administration assistant. Your task is to analyze a student's complaint and classify it for the helpdesk system.

Analyze the complaint based on the student's details, the text, and (if provided) the image. Provide a JSON response with 'priority', 'category', and 'department'.

**Student Details:**
- Name: %s
- Class & Division: %s - %s
- Roll Number: %s

**Analysis Guidelines:**

1.  **priority**: Assign a priority level: "High", "Medium", or "Low".
    - "High": Urgent issues affecting safety, health, or ability to perform academic work (e.g., power outage, broken window in dorm, exam conflict, fire hazard in image).
    - "Medium": Issues causing significant inconvenience but not critical (e.g., slow Wi-Fi, noisy library, broken furniture).
    - "Low": Minor issues or suggestions (e.g., request for more water coolers, suggestion for a new club).

2.  **category**: Provide a short, descriptive title (e.g., "Wi-Fi Outage in Library", "Leaking Faucet in Hostel Bathroom", "Broken Window in Room 301").

3.  **department**: Assign to the most relevant department: %s.

**Student Complaint Text:**
"%s"
`

// buildPrompt renders the classification instruction for one complaint.
func buildPrompt(text string, details models.StudentDetails) string {
	return fmt.Sprintf(classificationPrompt,
		details.Name,
		details.Class,
		details.Division,
		details.RollNo,
		quotedList(models.Departments),
		text,
	)
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// responseSchema is the structured-output contract declared to the model.
func responseSchema() *genai.Schema {
	priorities := make([]string, len(models.Priorities))
	for i, p := range models.Priorities {
		priorities[i] = string(p)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"priority": {
				Type:        genai.TypeString,
				Enum:        priorities,
				Description: "Priority of the complaint.",
			},
			"category": {
				Type:        genai.TypeString,
				Description: "A short, descriptive title for the complaint, considering text and image.",
			},
			"department": {
				Type:        genai.TypeString,
				Description: "The department responsible for handling the complaint.",
			},
		},
		Required: []string{"priority", "category", "department"},
	}
}

// buildRequest assembles the multi-part request: the instruction first, then the optional image.
func buildRequest(text string, details models.StudentDetails, image *models.ImageAttachment) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	parts := []*genai.Part{genai.NewPartFromText(buildPrompt(text, details))}
	if image != nil {
		raw, err := image.Bytes()
		if err != nil {
			return nil, nil, fmt.Errorf("decode image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(raw, image.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
	return contents, config, nil
}
