package models

import "gorm.io/gorm"

// Diagnosis is static reference data. It doubles as the reason list for
// realizations.
type Diagnosis struct {
	gorm.Model
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}
