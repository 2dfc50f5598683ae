package auth

import (
	"gorm.io/gorm"
)

// Migrate creates or updates the users and sessions tables.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&User{}, &Session{})
}
