package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table this
// service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&bookingModel{},
		&eventListingModel{},
		&transportOptionModel{},
		&safetyReportModel{},
	)
}
