package models

import (
	"context"
	"time"

	"github.com/limansoft/liman_backend/config"
)

// EmployeeDocument is an archived personnel document. Status is nullable:
// rows uploaded before the approval workflow existed carry NULL and are
// treated as approved.
type EmployeeDocument struct {
	ID              int       `gorm:"primary_key" json:"id"`
	EmployeeID      int       `gorm:"index" json:"employeeId"`
	DocumentType    string    `gorm:"size:64;index" json:"documentType"`
	Status          *string   `gorm:"size:32" json:"status"`
	DocumentUrl     string    `json:"documentUrl"`
	UploadedAt      time.Time `json:"uploadedAt"`
	IsLatestVersion bool      `gorm:"default:true" json:"isLatestVersion"`
}

// ListEntryDeclarations returns the latest-version SGK entry-declaration
// documents of one employee.
func ListEntryDeclarations(ctx context.Context, employeeId int) ([]EmployeeDocument, error) {
	db := config.GetDB()
	var docs []EmployeeDocument
	err := db.WithContext(ctx).
		Where("employee_id = ? AND is_latest_version = ? AND document_type IN ?",
			employeeId, true, SgkEntryDeclarationTypes()).
		Find(&docs).Error
	return docs, err
}
