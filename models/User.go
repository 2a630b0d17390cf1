package models

import "gorm.io/gorm"

// User is a staff account that can sign in to record animal events.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
}
