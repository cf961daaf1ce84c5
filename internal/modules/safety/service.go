package safety

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"homebound/internal/domain"
	"homebound/internal/pkg/apperror"
	"homebound/internal/realtime"
)

const reportsTable = "safety_reports"

var ErrNotFound = errors.New("safety report not found")

type ReportRepository interface {
	Create(ctx context.Context, report *domain.SafetyReport) error
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.SafetyReport, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.SafetyReport, int64, error)
	Update(ctx context.Context, id, userID string, fields map[string]any) error
	Delete(ctx context.Context, id, userID string) error
}

type ChangePublisher interface {
	Publish(evt realtime.ChangeEvent)
}

// Service is plain owner-scoped CRUD; the review workflow that moves
// reports through their statuses runs elsewhere.
type Service struct {
	reports ReportRepository
	feed    ChangePublisher
}

func NewService(reports ReportRepository, feed ChangePublisher) *Service {
	return &Service{reports: reports, feed: feed}
}

func (s *Service) CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*domain.SafetyReport, error) {
	now := time.Now().UTC()
	report := &domain.SafetyReport{
		ID:          uuid.NewString(),
		UserID:      userID,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    req.Category,
		Description: req.Description,
		Severity:    domain.ReportSeverity(req.Severity),
		Status:      domain.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventInsert, reportsTable, report, nil))
	}

	return report, nil
}

func (s *Service) GetReport(ctx context.Context, reportID, userID string) (*domain.SafetyReport, error) {
	report, err := s.reports.GetByIDForUser(ctx, reportID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *Service) GetUserReports(ctx context.Context, userID string, page, limit int) ([]domain.SafetyReport, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.reports.ListByUser(ctx, userID, limit, (page-1)*limit)
}

func (s *Service) UpdateReport(ctx context.Context, reportID, userID string, req UpdateReportRequest) (*domain.SafetyReport, error) {
	existing, err := s.reports.GetByIDForUser(ctx, reportID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Severity != nil {
		fields["severity"] = *req.Severity
	}

	if err := s.reports.Update(ctx, reportID, userID, fields); err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated, err := s.reports.GetByIDForUser(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventUpdate, reportsTable, updated, existing))
	}

	return updated, nil
}

func (s *Service) DeleteReport(ctx context.Context, reportID, userID string) error {
	existing, err := s.reports.GetByIDForUser(ctx, reportID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	if err := s.reports.Delete(ctx, reportID, userID); err != nil {
		if apperror.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventDelete, reportsTable, nil, existing))
	}

	return nil
}
