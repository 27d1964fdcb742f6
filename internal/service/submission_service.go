package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints-api/internal/dto"
	"github.com/noah-isme/campus-complaints-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaints-api/pkg/errors"
)

const (
	successMessage = "Complaint submitted and analyzed successfully!"

	defaultPageSize = 20
	maxPageSize     = 100
)

type complaintClassifier interface {
	Classify(ctx context.Context, text string, details models.StudentDetails, image *models.ImageAttachment) (models.ComplaintAnalysis, error)
}

type submissionQuota interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type sessionStore interface {
	Create() *Session
	Get(id string) (*Session, error)
}

// SubmissionConfig bounds what a submission may carry.
type SubmissionConfig struct {
	MaxImageBytes int64
}

// SubmissionService coordinates complaint submission for each session: it validates input,
// runs the classifier and folds the result into session state.
type SubmissionService struct {
	sessions   sessionStore
	classifier complaintClassifier
	quota      submissionQuota
	exporter   *ComplaintExporter
	cfg        SubmissionConfig
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewSubmissionService wires the coordinator. A nil quota lets every submission through.
func NewSubmissionService(
	sessions sessionStore,
	classifier complaintClassifier,
	quota submissionQuota,
	exporter *ComplaintExporter,
	cfg SubmissionConfig,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
) *SubmissionService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = NewComplaintExporter()
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 10 * 1024 * 1024
	}
	return &SubmissionService{
		sessions:   sessions,
		classifier: classifier,
		quota:      quota,
		exporter:   exporter,
		cfg:        cfg,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// CreateSession starts a new session on the student view.
func (s *SubmissionService) CreateSession(ctx context.Context) models.SessionState {
	sess := s.sessions.Create()
	s.logger.Debug("session created", zap.String("session_id", sess.ID()))
	return sess.snapshot()
}

// State returns a read-only snapshot of a session.
func (s *SubmissionService) State(ctx context.Context, sessionID string) (*models.SessionState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state := sess.snapshot()
	return &state, nil
}

// SetActiveView switches between the student and admin views.
func (s *SubmissionService) SetActiveView(ctx context.Context, sessionID string, req dto.SetViewRequest) (*dto.SetViewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.setView(req.View)
	return &dto.SetViewResult{ActiveView: req.View}, nil
}

// SubmitComplaint validates the form, classifies the complaint and prepends the analyzed record.
// Invalid input never reaches the classifier. Only one submission per session may be in flight.
// Quota is charged only for requests that are about to be classified.
// Classifier failures leave the session's complaints and view untouched and surface as ErrAnalysisFailed.
func (s *SubmissionService) SubmitComplaint(ctx context.Context, sessionID string, req dto.SubmitComplaintRequest) (*dto.SubmitComplaintResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.checkImage(req.Image); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.beginSubmission() {
		return nil, appErrors.ErrSubmissionBusy
	}
	defer sess.endSubmission()

	if err := s.chargeQuota(ctx, sessionID, req.ClientKey); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	details := req.StudentDetails

	// The call runs to completion even if the client goes away.
	analysis, err := s.classifier.Classify(context.WithoutCancel(ctx), text, details, req.Image)
	if err != nil {
		s.logger.Error("complaint analysis failed",
			zap.String("session_id", sessionID),
			zap.String("error_code", appErrors.FromError(err).Code),
			zap.Error(err),
		)
		sess.recordFailure(s.notification(models.NotificationError, appErrors.ErrAnalysisFailed.Message))
		s.metrics.RecordSubmission(false, "")
		return nil, appErrors.ErrAnalysisFailed
	}

	complaint := models.AnalyzedComplaint{
		ComplaintAnalysis: analysis,
		ID:                s.newID(),
		OriginalText:      text,
		Timestamp:         s.now(),
		StudentDetails:    details,
	}
	if req.Image != nil {
		complaint.ImageURL = req.Image.DataURL()
	}

	note := s.notification(models.NotificationSuccess, successMessage)
	sess.recordSuccess(complaint, note)
	s.metrics.RecordSubmission(true, string(analysis.Priority))
	s.logger.Info("complaint analyzed",
		zap.String("session_id", sessionID),
		zap.String("complaint_id", complaint.ID),
		zap.String("priority", string(analysis.Priority)),
		zap.String("department", analysis.Department),
	)

	return &dto.SubmitComplaintResult{Complaint: complaint, Notification: note, ActiveView: models.ViewAdmin}, nil
}

func (s *SubmissionService) chargeQuota(ctx context.Context, sessionID, clientKey string) error {
	if s.quota == nil {
		return nil
	}
	key := clientKey
	if key == "" {
		key = sessionID
	}
	ok, err := s.quota.Allow(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.ErrRateLimited
	}
	return nil
}

// checkImage verifies the attachment decodes, fits the size limit and really is an image.
func (s *SubmissionService) checkImage(img *models.ImageAttachment) error {
	if img == nil {
		return nil
	}
	if int64(base64.StdEncoding.DecodedLen(len(img.Base64))) > s.cfg.MaxImageBytes+2 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image.base64 exceeds %d bytes", s.cfg.MaxImageBytes))
	}
	raw, err := img.Bytes()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "image.base64 must be standard base64")
	}
	if int64(len(raw)) > s.cfg.MaxImageBytes {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image.base64 exceeds %d bytes", s.cfg.MaxImageBytes))
	}
	detected := mimetype.Detect(raw)
	if !strings.HasPrefix(detected.String(), "image/") {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image content is %s, not an image", detected.String()))
	}
	return nil
}

// ListComplaints returns the admin table, newest first.
func (s *SubmissionService) ListComplaints(ctx context.Context, sessionID string, filter models.ComplaintFilter) ([]models.AnalyzedComplaint, *models.Pagination, error) {
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "priority must be one of High, Medium, Low")
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	matched := make([]models.AnalyzedComplaint, 0)
	for _, c := range sess.listComplaints() {
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		if filter.Department != "" && !strings.EqualFold(c.Department, filter.Department) {
			continue
		}
		matched = append(matched, c)
	}

	page, size := normalisePage(filter.Page, filter.PageSize)
	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}, nil
}

// GetComplaint returns a single complaint for the detail view.
func (s *SubmissionService) GetComplaint(ctx context.Context, sessionID, complaintID string) (*models.AnalyzedComplaint, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	for _, c := range sess.listComplaints() {
		if c.ID == complaintID {
			found := c
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
}

// Notifications returns the session's recent notifications, newest first.
func (s *SubmissionService) Notifications(ctx context.Context, sessionID string) ([]models.Notification, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.listNotifications(), nil
}

// ExportComplaints renders the session's complaint list as a download.
func (s *SubmissionService) ExportComplaints(ctx context.Context, sessionID string, format dto.ExportFormat) (*dto.ExportFile, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(sess.listComplaints(), format, s.now())
}

func (s *SubmissionService) notification(level models.NotificationLevel, message string) models.Notification {
	return models.Notification{
		ID:        s.newID(),
		Level:     level,
		Message:   message,
		CreatedAt: s.now(),
	}
}

func normalisePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
