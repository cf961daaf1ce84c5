package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"homebound/internal/domain"
)

type SafetyReportRepository struct {
	db *gorm.DB
}

func NewSafetyReportRepository(db *gorm.DB) *SafetyReportRepository {
	return &SafetyReportRepository{db: db}
}

type safetyReportModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	UserID      string    `gorm:"column:user_id;index"`
	Location    string    `gorm:"column:location"`
	Latitude    *float64  `gorm:"column:latitude"`
	Longitude   *float64  `gorm:"column:longitude"`
	Category    string    `gorm:"column:category"`
	Description string    `gorm:"column:description"`
	Severity    string    `gorm:"column:severity"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (safetyReportModel) TableName() string { return "safety_reports" }

func toDomainReport(m safetyReportModel) *domain.SafetyReport {
	return &domain.SafetyReport{
		ID:          m.ID,
		UserID:      m.UserID,
		Location:    m.Location,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Category:    m.Category,
		Description: m.Description,
		Severity:    domain.ReportSeverity(m.Severity),
		Status:      domain.ReportStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toReportModel(r *domain.SafetyReport) safetyReportModel {
	return safetyReportModel{
		ID:          r.ID,
		UserID:      r.UserID,
		Location:    r.Location,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Category:    r.Category,
		Description: r.Description,
		Severity:    string(r.Severity),
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *SafetyReportRepository) Create(ctx context.Context, report *domain.SafetyReport) error {
	m := toReportModel(report)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*report = *toDomainReport(m)
	return nil
}

func (r *SafetyReportRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.SafetyReport, error) {
	var m safetyReportModel
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReport(m), nil
}

func (r *SafetyReportRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.SafetyReport, int64, error) {
	q := r.db.WithContext(ctx).Model(&safetyReportModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []safetyReportModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.SafetyReport, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReport(m))
	}
	return out, total, nil
}

// Update applies a partial update scoped to the owner.
func (r *SafetyReportRepository) Update(ctx context.Context, id, userID string, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&safetyReportModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SafetyReportRepository) Delete(ctx context.Context, id, userID string) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&safetyReportModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
