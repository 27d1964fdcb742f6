package models

import "time"

// View is the screen a session currently shows.
type View string

const (
	ViewStudent View = "student"
	ViewAdmin   View = "admin"
)

// Valid reports whether v names a known view.
func (v View) Valid() bool {
	return v == ViewStudent || v == ViewAdmin
}

// NotificationLevel mirrors the toast styles of the front end.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification is a transient message produced by a submission.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SessionState is a read-only snapshot of one session.
type SessionState struct {
	SessionID     string              `json:"sessionId"`
	ActiveView    View                `json:"activeView"`
	IsSubmitting  bool                `json:"isSubmitting"`
	Complaints    []AnalyzedComplaint `json:"complaints"`
	Notifications []Notification      `json:"notifications"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
