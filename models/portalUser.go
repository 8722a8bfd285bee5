package models

import (
	"context"

	"github.com/limansoft/liman_backend/config"
)

// PortalUser is a person account authorised for a firm's self-service portal.
type PortalUser struct {
	ID           int    `gorm:"primary_key" json:"id"`
	FirmID       int    `gorm:"index" json:"firmId"`
	Email        string `gorm:"size:255;index" json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`
	IsAdmin      bool   `gorm:"default:false" json:"isAdmin"`
}

func ListPortalUsersByFirm(ctx context.Context, firmId int) ([]PortalUser, error) {
	db := config.GetDB()
	var users []PortalUser
	err := db.WithContext(ctx).Where("firm_id = ?", firmId).Find(&users).Error
	return users, err
}

func GetPortalUserByEmail(ctx context.Context, email string) (*PortalUser, error) {
	db := config.GetDB()
	var user PortalUser
	err := db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ReminderRecipients picks the reminder email targets for a firm: active
// admins first, all active users as fallback. Empty means skip the firm.
func ReminderRecipients(users []PortalUser) []string {
	var admins, everyone []string
	for _, u := range users {
		if !u.IsActive || u.Email == "" {
			continue
		}
		everyone = append(everyone, u.Email)
		if u.IsAdmin {
			admins = append(admins, u.Email)
		}
	}
	if len(admins) > 0 {
		return admins
	}
	return everyone
}
