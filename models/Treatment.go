package models

import "gorm.io/gorm"

// Treatment is a drug/protocol offered only for the diagnoses it is linked to.
type Treatment struct {
	gorm.Model
	Name      string      `gorm:"not null;uniqueIndex" json:"name"`
	Diagnoses []Diagnosis `gorm:"many2many:treatment_diagnoses" json:"diagnoses,omitempty"`
}
