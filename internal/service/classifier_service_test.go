package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/noah-isme/campus-complaints-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaints-api/pkg/errors"
)

type generatorStub struct {
	text         string
	blocked      genai.BlockedReason
	err          error
	calls        int
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
}

func (s *generatorStub) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	s.lastContents = contents
	s.lastConfig = config
	if s.err != nil {
		return nil, s.err
	}
	resp := &genai.GenerateContentResponse{}
	if s.text != "" {
		resp.Candidates = []*genai.Candidate{{Content: genai.NewContentFromText(s.text, genai.RoleModel)}}
	}
	if s.blocked != "" {
		resp.PromptFeedback = &genai.GenerateContentResponsePromptFeedback{BlockReason: s.blocked}
	}
	return resp, nil
}

var testDetails = models.StudentDetails{Name: "Asha Rao", Class: "TE", Division: "A", RollNo: "17"}

func newTestClassifier(t *testing.T, stub *generatorStub, opts ClassifierOptions) *ClassifierService {
	t.Helper()
	svc, err := NewClassifierService(stub, opts, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestClassifyValidResponse(t *testing.T) {
	stub := &generatorStub{text: `{"priority":"High","category":"Wi-Fi Outage in Library","department":"IT Services"}`}
	svc := newTestClassifier(t, stub, ClassifierOptions{})

	got, err := svc.Classify(context.Background(), "The Wi-Fi in the library is down.", testDetails, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintAnalysis{
		Priority:   models.PriorityHigh,
		Category:   "Wi-Fi Outage in Library",
		Department: "IT Services",
	}, got)
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyTrimsFields(t *testing.T) {
	stub := &generatorStub{text: "\n {\"priority\":\"Low\",\"category\":\" More water coolers \",\"department\":\"Hostel Management\"} \n"}
	svc := newTestClassifier(t, stub, ClassifierOptions{})

	got, err := svc.Classify(context.Background(), "Please add water coolers.", testDetails, nil)
	require.NoError(t, err)
	assert.Equal(t, "More water coolers", got.Category)
}

func TestClassifyAcceptsUnlistedDepartmentByDefault(t *testing.T) {
	stub := &generatorStub{text: `{"priority":"Medium","category":"Noisy Library","department":"Campus Security"}`}
	svc := newTestClassifier(t, stub, ClassifierOptions{})

	got, err := svc.Classify(context.Background(), "Library is noisy.", testDetails, nil)
	require.NoError(t, err)
	assert.Equal(t, "Campus Security", got.Department)
}

func TestClassifyStrictDepartments(t *testing.T) {
	stub := &generatorStub{text: `{"priority":"Medium","category":"Noisy Library","department":"Campus Security"}`}
	svc := newTestClassifier(t, stub, ClassifierOptions{StrictDepartments: true})

	_, err := svc.Classify(context.Background(), "Library is noisy.", testDetails, nil)
	assert.ErrorIs(t, err, appErrors.ErrMalformedResponse)
}

func TestClassifyFailures(t *testing.T) {
	cases := []struct {
		name string
		stub *generatorStub
		want *appErrors.Error
	}{
		{"empty", &generatorStub{}, appErrors.ErrEmptyResponse},
		{"whitespace", &generatorStub{text: "  \n\t "}, appErrors.ErrEmptyResponse},
		{"blocked", &generatorStub{blocked: genai.BlockedReasonSafety}, appErrors.ErrEmptyResponse},
		{"not json", &generatorStub{text: "High priority, IT Services"}, appErrors.ErrMalformedResponse},
		{"empty object", &generatorStub{text: "{}"}, appErrors.ErrMalformedResponse},
		{"unknown priority", &generatorStub{text: `{"priority":"Urgent","category":"Fire","department":"Administration"}`}, appErrors.ErrMalformedResponse},
		{"lowercase priority", &generatorStub{text: `{"priority":"high","category":"Fire","department":"Administration"}`}, appErrors.ErrMalformedResponse},
		{"blank category", &generatorStub{text: `{"priority":"High","category":"  ","department":"Administration"}`}, appErrors.ErrMalformedResponse},
		{"missing department", &generatorStub{text: `{"priority":"High","category":"Fire"}`}, appErrors.ErrMalformedResponse},
		{"extra field", &generatorStub{text: `{"priority":"High","category":"Fire","department":"Administration","confidence":0.9}`}, appErrors.ErrMalformedResponse},
		{"wrong type", &generatorStub{text: `{"priority":"High","category":42,"department":"Administration"}`}, appErrors.ErrMalformedResponse},
		{"trailing data", &generatorStub{text: `{"priority":"High","category":"Fire","department":"Administration"} {}`}, appErrors.ErrMalformedResponse},
		{"array", &generatorStub{text: `[{"priority":"High","category":"Fire","department":"Administration"}]`}, appErrors.ErrMalformedResponse},
		{"transport", &generatorStub{err: genai.APIError{Code: 503, Message: "overloaded", Status: "UNAVAILABLE"}}, appErrors.ErrClassificationFailed},
		{"timeout", &generatorStub{err: context.DeadlineExceeded}, appErrors.ErrClassificationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestClassifier(t, tc.stub, ClassifierOptions{})
			got, err := svc.Classify(context.Background(), "Something broke.", testDetails, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, models.ComplaintAnalysis{}, got)
		})
	}
}

func TestClassifyKeepsTransportCause(t *testing.T) {
	svc := newTestClassifier(t, &generatorStub{err: context.DeadlineExceeded}, ClassifierOptions{})

	_, err := svc.Classify(context.Background(), "x", testDetails, nil)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClassifyRequestShape(t *testing.T) {
	stub := &generatorStub{text: `{"priority":"High","category":"Broken Window","department":"Maintenance"}`}
	svc := newTestClassifier(t, stub, ClassifierOptions{})
	img := &models.ImageAttachment{Base64: "iVBORw0KGgo=", MimeType: "image/png"}

	_, err := svc.Classify(context.Background(), "Window in room 301 is broken.", testDetails, img)
	require.NoError(t, err)

	require.Len(t, stub.lastContents, 1)
	assert.Equal(t, "user", string(stub.lastContents[0].Role))
	parts := stub.lastContents[0].Parts
	require.Len(t, parts, 2)

	prompt := parts[0].Text
	assert.Contains(t, prompt, "- Name: Asha Rao")
	assert.Contains(t, prompt, "- Class & Division: TE - A")
	assert.Contains(t, prompt, "- Roll Number: 17")
	assert.Contains(t, prompt, `"Window in room 301 is broken."`)
	for _, dept := range models.Departments {
		assert.Contains(t, prompt, dept)
	}

	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), parts[1].InlineData.Data)

	require.NotNil(t, stub.lastConfig)
	assert.Equal(t, "application/json", stub.lastConfig.ResponseMIMEType)
	schema := stub.lastConfig.ResponseSchema
	require.NotNil(t, schema)
	assert.ElementsMatch(t, []string{"priority", "category", "department"}, schema.Required)
	assert.Equal(t, []string{"High", "Medium", "Low"}, schema.Properties["priority"].Enum)
}

func TestClassifyWithoutImageSendsOnlyText(t *testing.T) {
	stub := &generatorStub{text: `{"priority":"Low","category":"Club","department":"Student Welfare"}`}
	svc := newTestClassifier(t, stub, ClassifierOptions{})

	_, err := svc.Classify(context.Background(), "Start a chess club.", testDetails, nil)
	require.NoError(t, err)
	require.Len(t, stub.lastContents[0].Parts, 1)
	assert.Nil(t, stub.lastContents[0].Parts[0].InlineData)
}

func TestClassifyUndecodableImageSkipsModel(t *testing.T) {
	stub := &generatorStub{text: `{"priority":"Low","category":"Club","department":"Student Welfare"}`}
	svc := newTestClassifier(t, stub, ClassifierOptions{})

	_, err := svc.Classify(context.Background(), "x", testDetails, &models.ImageAttachment{Base64: "not base64!", MimeType: "image/png"})
	assert.ErrorIs(t, err, appErrors.ErrClassificationFailed)
	assert.Zero(t, stub.calls)
}

func TestQuotedList(t *testing.T) {
	assert.Equal(t, `"A", "B", or "C"`, quotedList([]string{"A", "B", "C"}))
	assert.Equal(t, `"A"`, quotedList([]string{"A"}))
	assert.True(t, strings.HasSuffix(quotedList(models.Departments), `or "Hostel Management"`))
}

func TestNewClassifierServiceRequiresClient(t *testing.T) {
	_, err := NewClassifierService(nil, ClassifierOptions{}, nil, nil)
	assert.Error(t, err)
}
