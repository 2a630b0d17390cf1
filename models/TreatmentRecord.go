package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Severity is the clinician-assigned urgency of a treatment.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ParseSeverity validates a severity string.
func ParseSeverity(value string) (Severity, error) {
	switch Severity(value) {
	case SeverityCritical, SeverityMedium, SeverityLow:
		return Severity(value), nil
	}
	return "", fmt.Errorf("unknown severity %q", value)
}

// TreatmentRecord is one administered treatment. Append-only: every
// submission creates a new row.
type TreatmentRecord struct {
	gorm.Model
	AnimalID        uint       `gorm:"not null;index" json:"animal_id"`
	DiagnosisID     uint       `gorm:"not null" json:"diagnosis_id"`
	Diagnosis       *Diagnosis `gorm:"foreignKey:DiagnosisID" json:"diagnosis,omitempty"`
	TreatmentID     uint       `gorm:"not null" json:"treatment_id"`
	Treatment       *Treatment `gorm:"foreignKey:TreatmentID" json:"treatment,omitempty"`
	TreatmentPerson string     `gorm:"not null;default:system" json:"treatment_person"`
	CurrentWeight   *float64   `json:"current_weight,omitempty"`
	Severity        Severity   `gorm:"type:varchar(16);not null" json:"severity"`
	TreatmentDate   time.Time  `gorm:"not null" json:"treatment_date"`
	MovedToPenID    *uint      `json:"moved_to_pen_id,omitempty"`
}

// TableName keeps the historical table name from the yard schema.
func (TreatmentRecord) TableName() string { return "animal_treatments" }
