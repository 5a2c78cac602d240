package repository

import (
	"gorm.io/gorm"

	"venuebook/internal/domain"
)

// AutoMigrate creates or updates all tables the service owns. Extra models
// owned by other packages (the notifications table) are appended by the
// caller.
func AutoMigrate(db *gorm.DB, extra ...any) error {
	models := []any{
		&userModel{},
		&venueModel{},
		&hallModel{},
		&foodModel{},
		&requestModel{},
		&bookingModel{},
		&domain.Payment{},
	}
	return db.AutoMigrate(append(models, extra...)...)
}
