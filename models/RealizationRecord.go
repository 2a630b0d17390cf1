package models

import (
	"time"

	"gorm.io/gorm"
)

// RealizationRecord captures a cull/sale outside the normal shipping flow.
// The reason list reuses the diagnosis reference data.
type RealizationRecord struct {
	gorm.Model
	AnimalID        uint       `gorm:"not null;index" json:"animal_id"`
	ReasonID        uint       `gorm:"not null" json:"reason_id"`
	Reason          *Diagnosis `gorm:"foreignKey:ReasonID" json:"reason,omitempty"`
	Weight          *float64   `json:"weight,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	RealizationDate time.Time  `gorm:"not null" json:"realization_date"`
}

// TableName keeps the historical table name from the yard schema.
func (RealizationRecord) TableName() string { return "animal_realizations" }
