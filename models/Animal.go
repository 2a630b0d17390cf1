package models

import (
	"fmt"

	"gorm.io/gorm"
)

// AnimalStatus tracks where an animal sits in its lifecycle. An animal that
// is dead or realized is terminal and never returns to active.
type AnimalStatus string

const (
	StatusActive   AnimalStatus = "active"
	StatusDead     AnimalStatus = "dead"
	StatusRealized AnimalStatus = "realized"
)

// ParseAnimalStatus validates a status string read from the store. Unknown
// values are an error, never coerced to active.
func ParseAnimalStatus(value string) (AnimalStatus, error) {
	switch AnimalStatus(value) {
	case StatusActive, StatusDead, StatusRealized:
		return AnimalStatus(value), nil
	}
	return "", fmt.Errorf("unknown animal status %q", value)
}

// Terminal reports whether the status permits no further lifecycle changes.
func (s AnimalStatus) Terminal() bool {
	return s == StatusDead || s == StatusRealized
}

// Gender is the recorded sex class of a feedlot animal.
type Gender string

const (
	GenderSteer Gender = "Steer"
	GenderCow   Gender = "Cow"
)

// ParseGender validates a gender string read from the store.
func ParseGender(value string) (Gender, error) {
	switch Gender(value) {
	case GenderSteer, GenderCow:
		return Gender(value), nil
	}
	return "", fmt.Errorf("unknown gender %q", value)
}

// Animal is a single head in the yard. The pen reference is authoritative for
// location; lot membership is derived through the pen on read.
type Animal struct {
	gorm.Model
	VisualTag        string       `gorm:"not null" json:"visual_tag"`
	Gender           Gender       `gorm:"type:varchar(16);not null;default:Steer" json:"gender"`
	DaysOnFeed       int          `gorm:"not null;default:0" json:"days_on_feed"`
	DaysToShip       int          `gorm:"not null;default:0" json:"days_to_ship"`
	LTDTreatmentCost float64      `gorm:"not null;default:0" json:"ltd_treatment_cost"`
	Pulls            int          `gorm:"not null;default:0" json:"pulls"`
	RePulls          int          `gorm:"not null;default:0" json:"re_pulls"`
	ReTreat          int          `gorm:"not null;default:0" json:"re_treat"`
	EID              string       `gorm:"column:animal_eid;index" json:"animal_eid,omitempty"`
	PenID            *uint        `json:"pen_id,omitempty"`
	Pen              *Pen         `gorm:"foreignKey:PenID" json:"pen,omitempty"`
	Status           AnimalStatus `gorm:"type:varchar(16);not null;default:active" json:"status"`
}

// LotID returns the lot the animal belongs to, derived through its pen.
// Nil for unpenned animals and for lot-independent pens such as Hospital.
func (a *Animal) LotID() *uint {
	if a.Pen == nil {
		return nil
	}
	return a.Pen.LotID
}
