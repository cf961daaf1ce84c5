package domain

import "time"

type ReportSeverity string

const (
	SeverityLow      ReportSeverity = "low"
	SeverityModerate ReportSeverity = "moderate"
	SeverityHigh     ReportSeverity = "high"
	SeverityCritical ReportSeverity = "critical"
)

var ReportSeverities = []string{
	string(SeverityLow),
	string(SeverityModerate),
	string(SeverityHigh),
	string(SeverityCritical),
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewing ReportStatus = "reviewing"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

var ReportStatuses = []string{
	string(ReportPending),
	string(ReportReviewing),
	string(ReportResolved),
	string(ReportDismissed),
}

// SafetyReport is a user-submitted incident. Reports are owned
// exclusively by their creator for both reads and writes.
type SafetyReport struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id" validate:"required"`
	Location    string         `json:"location" validate:"required"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	Category    string         `json:"category" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Severity    ReportSeverity `json:"severity"`
	Status      ReportStatus   `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
