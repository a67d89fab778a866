package models

import "time"

// User is an admin account. Created once at bootstrap.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	PasswordSalt string    `gorm:"size:64;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}
