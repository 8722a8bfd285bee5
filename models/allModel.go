package models

import (
	"log"

	"github.com/limansoft/liman_backend/config"
)

// MigrateTable runs AutoMigrate for every model owned by this service.
func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&Firm{},
		&Employee{},
		&EmployeeDocument{},
		&PortalUser{},
		&PeriodCheck{},
		&EmployeePeriodFlag{},
		&CurrencyRate{},
	)
	if err != nil {
		log.Printf("migration failed: %v", err)
	}
}
