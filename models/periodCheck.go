package models

import (
	"context"
	"time"

	"github.com/limansoft/liman_backend/config"
	"gorm.io/gorm"
)

// PeriodCheck records one SGK listing ingestion attempt. Rows are append-only:
// re-uploads for the same (firm, period) create new rows, history is retained.
type PeriodCheck struct {
	ID                   int               `gorm:"primary_key" json:"id"`
	FirmID               int               `gorm:"index:idx_period_checks_firm_period" json:"firmId"`
	PeriodCode           string            `gorm:"size:6;index:idx_period_checks_firm_period" json:"periodCode"`
	StorageKey           string            `json:"storageKey"`
	FileSize             int64             `json:"fileSize"`
	Checksum             *string           `gorm:"size:64" json:"checksum"`
	UploadedAt           time.Time         `json:"uploadedAt"`
	UploadedByUserID     *int              `json:"uploadedByUserId"`
	Status               PeriodCheckStatus `gorm:"size:16" json:"status"`
	MatchedEmployeeCount int               `json:"matchedEmployeeCount"`
	MissingEmployeeCount int               `json:"missingEmployeeCount"`
	ExtraInSgkCount      int               `json:"extraInSgkCount"`
}

// HasOkPeriodCheck reports whether a firm already has a successful ingestion
// for the given "YYYYMM" code.
func HasOkPeriodCheck(ctx context.Context, db *gorm.DB, firmId int, periodCode string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&PeriodCheck{}).
		Where("firm_id = ? AND period_code = ? AND status = ?", firmId, periodCode, PeriodCheckStatusOk).
		Count(&count).Error
	return count > 0, err
}

// PaginatePeriodChecks lists a firm's ingestion history, most recent first.
// periodCode filters on the six-character code when non-empty.
func PaginatePeriodChecks(ctx context.Context, firmId int, periodCode string, p Pagination) ([]PeriodCheck, int64, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&PeriodCheck{}).Where("firm_id = ?", firmId)
	if periodCode != "" {
		query = query.Where("period_code = ?", periodCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var checks []PeriodCheck
	err := query.Order("uploaded_at DESC, id DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&checks).Error
	return checks, total, err
}
