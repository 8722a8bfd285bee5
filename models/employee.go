package models

import (
	"context"
	"fmt"

	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/utils"
	"gorm.io/gorm"
)

// Employee belongs to a Firm. LastCheckPeriodCode ("YYYY-MM") and
// WasActiveInLastPeriod are the legacy compliance fields; the SGK engine
// keeps them in sync with the per-period flag rows.
type Employee struct {
	ID                    int     `gorm:"primary_key" json:"id"`
	FirmID                int     `gorm:"index" json:"firmId"`
	FirstName             string  `gorm:"size:100" json:"firstName"`
	LastName              string  `gorm:"size:100" json:"lastName"`
	NationalID            *string `gorm:"size:11;index" json:"nationalId"`
	IsActive              bool    `gorm:"default:true" json:"isActive"`
	LastCheckPeriodCode   *string `gorm:"size:7" json:"lastCheckPeriodCode"`
	WasActiveInLastPeriod bool    `json:"wasActiveInLastPeriod"`
}

// RosterEmployee is the read-only roster view the reconciliation engine
// works with: plain records, no ORM state.
type RosterEmployee struct {
	ID         int
	NationalID string
}

// SgkRoster is a firm's active employee roster plus the latest-version SGK
// entry-declaration documents keyed by employee id.
type SgkRoster struct {
	Employees      []RosterEmployee
	EntryDocuments map[int][]EmployeeDocument
}

func isElevenDigits(s string) bool {
	if len(s) != 11 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// LoadSgkRoster returns the active employees of a firm that carry a valid
// 11-digit national id, with their entry-declaration documents. A store
// failure surfaces as ROSTER_UNAVAILABLE.
func LoadSgkRoster(ctx context.Context, db *gorm.DB, firmId int) (*SgkRoster, error) {
	var employees []Employee
	err := db.WithContext(ctx).
		Where("firm_id = ? AND is_active = ?", firmId, true).
		Order("id").
		Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRosterUnavailable, err)
	}

	roster := &SgkRoster{EntryDocuments: map[int][]EmployeeDocument{}}
	var ids []int
	for _, emp := range employees {
		if emp.NationalID == nil || !isElevenDigits(*emp.NationalID) {
			continue
		}
		roster.Employees = append(roster.Employees, RosterEmployee{ID: emp.ID, NationalID: *emp.NationalID})
		ids = append(ids, emp.ID)
	}
	if len(ids) == 0 {
		return roster, nil
	}

	var docs []EmployeeDocument
	err = db.WithContext(ctx).
		Where("employee_id IN ? AND is_latest_version = ? AND document_type IN ?",
			ids, true, SgkEntryDeclarationTypes()).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRosterUnavailable, err)
	}
	for _, doc := range docs {
		roster.EntryDocuments[doc.EmployeeID] = append(roster.EntryDocuments[doc.EmployeeID], doc)
	}
	return roster, nil
}

// GetPortalEmployee loads an employee and verifies it belongs to the firm,
// so one firm can never query another firm's personnel.
func GetPortalEmployee(ctx context.Context, employeeId int, firmId int) (*Employee, error) {
	db := config.GetDB()
	var emp Employee
	err := db.WithContext(ctx).Where("id = ? AND firm_id = ?", employeeId, firmId).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &emp, nil
}
