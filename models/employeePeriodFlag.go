package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeePeriodFlag is the fact that an employee appeared in one period's
// SGK listing. Only the reconciliation engine writes these, and only with
// is_active = true; absence of a row means "not seen".
type EmployeePeriodFlag struct {
	ID         int    `gorm:"primary_key" json:"id"`
	EmployeeID int    `gorm:"uniqueIndex:idx_employee_period" json:"employeeId"`
	PeriodCode string `gorm:"size:6;uniqueIndex:idx_employee_period" json:"periodCode"`
	IsActive   bool   `json:"isActive"`
}

// UpsertPeriodFlags writes one flag row per employee for the period inside
// the caller's transaction. Re-uploads refresh the existing rows.
func UpsertPeriodFlags(tx *gorm.DB, employeeIds []int, periodCode string) error {
	if len(employeeIds) == 0 {
		return nil
	}
	flags := make([]EmployeePeriodFlag, 0, len(employeeIds))
	for _, id := range employeeIds {
		flags = append(flags, EmployeePeriodFlag{
			EmployeeID: id,
			PeriodCode: periodCode,
			IsActive:   true,
		})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "period_code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true}),
	}).Create(&flags).Error
}

// ListPeriodFlags returns the flag rows of one employee for one period code.
func ListPeriodFlags(tx *gorm.DB, employeeId int, periodCode string) ([]EmployeePeriodFlag, error) {
	var flags []EmployeePeriodFlag
	err := tx.Where("employee_id = ? AND period_code = ?", employeeId, periodCode).Find(&flags).Error
	return flags, err
}
