package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DeathReason is the fixed cause-of-death list offered to staff.
type DeathReason string

const (
	DeathRespiratory  DeathReason = "Respiratory Disease"
	DeathDigestive    DeathReason = "Digestive Disorder"
	DeathInjury       DeathReason = "Injury"
	DeathNeurological DeathReason = "Neurological Issue"
	DeathMetabolic    DeathReason = "Metabolic Disease"
	DeathUnknown      DeathReason = "Unknown"
)

// DeathReasons lists every accepted cause of death in display order.
var DeathReasons = []DeathReason{
	DeathRespiratory,
	DeathDigestive,
	DeathInjury,
	DeathNeurological,
	DeathMetabolic,
	DeathUnknown,
}

// ParseDeathReason validates a death reason string.
func ParseDeathReason(value string) (DeathReason, error) {
	for _, reason := range DeathReasons {
		if DeathReason(value) == reason {
			return reason, nil
		}
	}
	return "", fmt.Errorf("unknown death reason %q", value)
}

// DeathRecord is the single death fact for an animal. The unique index on
// AnimalID backs the at-most-one-record-per-animal upsert contract.
type DeathRecord struct {
	gorm.Model
	AnimalID  uint        `gorm:"not null;uniqueIndex" json:"animal_id"`
	Reason    DeathReason `gorm:"type:varchar(32);not null" json:"reason"`
	Necropsy  bool        `gorm:"not null;default:false" json:"necropsy"`
	DeathDate time.Time   `gorm:"not null" json:"death_date"`
	PhotoURL  string      `json:"photo_url,omitempty"`
}

// TableName keeps the historical table name from the yard schema.
func (DeathRecord) TableName() string { return "animal_deaths" }
