package models

import "github.com/rentdesk/rentroll_backend/config"

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&Room{},
		&Tenant{},
		&Occupancy{},
		&MeterReading{},
		&Setting{},
		&Bill{},
		&BillPayment{},
		&OutboxMessageRecord{},
	)
	if err != nil {
		panic("migration failed: " + err.Error())
	}
}
