package models

import (
	"context"

	"github.com/limansoft/liman_backend/config"
)

// Firm is a customer company with portal access. The SGK engine only reads
// firm rows; CRUD lives with the back-office collaborators.
type Firm struct {
	ID       int    `gorm:"primary_key" json:"id"`
	FirmCode string `gorm:"size:32;uniqueIndex" json:"firmCode"`
	Name     string `gorm:"size:255" json:"name"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func GetFirmById(ctx context.Context, id int) (*Firm, error) {
	db := config.GetDB()
	var firm Firm
	if err := db.WithContext(ctx).First(&firm, id).Error; err != nil {
		return nil, err
	}
	return &firm, nil
}

func ListActiveFirms(ctx context.Context) ([]Firm, error) {
	db := config.GetDB()
	var firms []Firm
	err := db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&firms).Error
	return firms, err
}
