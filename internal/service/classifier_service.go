package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/noah-isme/campus-complaints-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaints-api/pkg/errors"
	"github.com/noah-isme/campus-complaints-api/pkg/gemini"
)

const (
	analysisSchemaURL  = "https://campus-complaints.local/schemas/complaint-analysis.schema.json"
	analysisSchemaJSON = `{
  "type": "object",
  "properties": {
    "priority": {"type": "string", "enum": ["High", "Medium", "Low"]},
    "category": {"type": "string", "pattern": "\\S"},
    "department": {"type": "string", "pattern": "\\S"}
  },
  "required": ["priority", "category", "department"],
  "additionalProperties": false
}`
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClassifierOptions tunes response validation.
type ClassifierOptions struct {
	// StrictDepartments rejects departments outside models.Departments.
	StrictDepartments bool
}

// ClassifierService turns a complaint into a ComplaintAnalysis with one call to the external model.
type ClassifierService struct {
	client  contentGenerator
	schema  *jsonschema.Schema
	opts    ClassifierOptions
	metrics *MetricsService
	logger  *zap.Logger
}

// NewClassifierService compiles the response schema and wires the transport.
func NewClassifierService(client contentGenerator, opts ClassifierOptions, metrics *MetricsService, logger *zap.Logger) (*ClassifierService, error) {
	if client == nil {
		return nil, errors.New("classifier: content generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	schema, err := compileAnalysisSchema()
	if err != nil {
		return nil, err
	}
	return &ClassifierService{client: client, schema: schema, opts: opts, metrics: metrics, logger: logger}, nil
}

func compileAnalysisSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(analysisSchemaURL, strings.NewReader(analysisSchemaJSON)); err != nil {
		return nil, fmt.Errorf("analysis schema load failed: %w", err)
	}
	schema, err := c.Compile(analysisSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("analysis schema compile failed: %w", err)
	}
	return schema, nil
}

// Classify asks the model for priority, category and department. Errors are always one of
// ErrEmptyResponse, ErrMalformedResponse or ErrClassificationFailed, wrapping the cause.
// Output is not stable across calls for the same input.
func (s *ClassifierService) Classify(ctx context.Context, text string, details models.StudentDetails, image *models.ImageAttachment) (models.ComplaintAnalysis, error) {
	start := time.Now()
	analysis, outcome, err := s.classify(ctx, text, details, image)
	s.metrics.ObserveClassification(outcome, time.Since(start))
	if err != nil {
		s.logger.Debug("classification failed", zap.String("outcome", outcome), zap.Error(err))
	}
	return analysis, err
}

func (s *ClassifierService) classify(ctx context.Context, text string, details models.StudentDetails, image *models.ImageAttachment) (models.ComplaintAnalysis, string, error) {
	contents, config, err := buildRequest(text, details, image)
	if err != nil {
		return models.ComplaintAnalysis{}, OutcomeClassificationFailed, appErrors.WrapAs(err, appErrors.ErrClassificationFailed)
	}
	resp, err := s.client.GenerateContent(ctx, contents, config)
	if err != nil {
		return models.ComplaintAnalysis{}, OutcomeClassificationFailed, appErrors.WrapAs(err, appErrors.ErrClassificationFailed)
	}

	raw := strings.TrimSpace(gemini.ResponseText(resp))
	if raw == "" {
		var cause error
		if reason := gemini.BlockReason(resp); reason != "" {
			cause = fmt.Errorf("prompt blocked: %s", reason)
		}
		return models.ComplaintAnalysis{}, OutcomeEmptyResponse, appErrors.WrapAs(cause, appErrors.ErrEmptyResponse)
	}

	analysis, err := s.parse(raw)
	if err != nil {
		return models.ComplaintAnalysis{}, OutcomeMalformedResponse, appErrors.WrapAs(err, appErrors.ErrMalformedResponse)
	}
	return analysis, OutcomeSuccess, nil
}

// parse decodes raw model output, validates it against the analysis schema and returns the typed result.
func (s *ClassifierService) parse(raw string) (models.ComplaintAnalysis, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return models.ComplaintAnalysis{}, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.ComplaintAnalysis{}, errors.New("trailing data after json value")
	}
	if err := s.schema.Validate(doc); err != nil {
		return models.ComplaintAnalysis{}, err
	}

	var out models.ComplaintAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return models.ComplaintAnalysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	out.Category = strings.TrimSpace(out.Category)
	out.Department = strings.TrimSpace(out.Department)

	if !out.Priority.Valid() {
		return models.ComplaintAnalysis{}, fmt.Errorf("priority %q is not a known level", out.Priority)
	}
	if s.opts.StrictDepartments && !models.IsSuggestedDepartment(out.Department) {
		return models.ComplaintAnalysis{}, fmt.Errorf("department %q is not in the suggested list", out.Department)
	}
	return out, nil
}
