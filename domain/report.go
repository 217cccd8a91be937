package domain

import "time"

// ReportStatus tracks backend-side report generation.
type ReportStatus string

const (
	ReportStatusPending ReportStatus = "PENDING"
	ReportStatusReady   ReportStatus = "READY"
	ReportStatusFailed  ReportStatus = "FAILED"
)

// Report is a generated document (production summary, billing, audit export).
// Rendering happens in the backend; the console only lists and downloads.
type Report struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Kind        string       `json:"kind"`
	SiteID      int64        `json:"site_id,omitempty"`
	PeriodStart *time.Time   `json:"period_start,omitempty"`
	PeriodEnd   *time.Time   `json:"period_end,omitempty"`
	Status      ReportStatus `json:"status"`
	DownloadURL string       `json:"download_url,omitempty"`
	RequestedBy int64        `json:"requested_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ReportRequest asks the backend to generate a new report.
type ReportRequest struct {
	Title       string     `json:"title"`
	Kind        string     `json:"kind"`
	SiteID      int64      `json:"site_id,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

// Notification is a transient backend message addressed to a user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Severity  string    `json:"severity,omitempty"` // "info", "warning", "error"
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
