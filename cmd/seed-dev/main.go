// seed-dev loads a small development dataset: two active firms, a handful of
// employees with valid national ids, and a portal admin per firm.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/models"
	"github.com/limansoft/liman_backend/utils"
	"gorm.io/gorm"
)

const seedPassword = "Portal123!"

type seedEmployee struct {
	firstName  string
	lastName   string
	nationalId string
}

var seedFirms = []struct {
	code      string
	name      string
	admin     string
	employees []seedEmployee
}{
	{
		code:  "AP-001",
		name:  "Akdeniz Port İşletmeleri A.Ş.",
		admin: "portal@akdenizport.example",
		employees: []seedEmployee{
			{"Mehmet", "Yılmaz", "10000000146"},
			{"Ayşe", "Demir", "20000000230"},
			{"İsmail", "Çelik", "30000000314"},
		},
	},
	{
		code:  "AP-002",
		name:  "Marmara Liman Hizmetleri Ltd.",
		admin: "portal@marmaraliman.example",
		employees: []seedEmployee{
			{"Fatma", "Şahin", "40000000498"},
			{"Hüseyin", "Öztürk", "50000000572"},
		},
	},
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	hashed, err := utils.HashPassword(seedPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	for _, sf := range seedFirms {
		firm := models.Firm{FirmCode: sf.code, Name: sf.name, IsActive: true}
		err := db.WithContext(ctx).Where("firm_code = ?", sf.code).First(&firm).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.WithContext(ctx).Create(&firm).Error; err != nil {
				fmt.Fprintf(os.Stderr, "failed to create firm %s: %v\n", sf.code, err)
				os.Exit(1)
			}
			fmt.Printf("Created firm %s (id=%d)\n", sf.code, firm.ID)
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "failed to lookup firm %s: %v\n", sf.code, err)
			os.Exit(1)
		}

		for _, se := range sf.employees {
			nid := se.nationalId
			var count int64
			db.WithContext(ctx).Model(&models.Employee{}).
				Where("firm_id = ? AND national_id = ?", firm.ID, nid).
				Count(&count)
			if count > 0 {
				continue
			}
			emp := models.Employee{
				FirmID:     firm.ID,
				FirstName:  se.firstName,
				LastName:   se.lastName,
				NationalID: &nid,
				IsActive:   true,
			}
			if err := db.WithContext(ctx).Create(&emp).Error; err != nil {
				fmt.Fprintf(os.Stderr, "failed to create employee %s %s: %v\n", se.firstName, se.lastName, err)
				os.Exit(1)
			}
		}

		var userCount int64
		db.WithContext(ctx).Model(&models.PortalUser{}).
			Where("firm_id = ? AND email = ?", firm.ID, sf.admin).
			Count(&userCount)
		if userCount == 0 {
			user := models.PortalUser{
				FirmID:       firm.ID,
				Email:        sf.admin,
				PasswordHash: string(hashed),
				IsActive:     true,
				IsAdmin:      true,
			}
			if err := db.WithContext(ctx).Create(&user).Error; err != nil {
				fmt.Fprintf(os.Stderr, "failed to create portal user %s: %v\n", sf.admin, err)
				os.Exit(1)
			}
			fmt.Printf("Created portal admin %s (password %q)\n", sf.admin, seedPassword)
		}
	}

	fmt.Println("Seed complete")
}
