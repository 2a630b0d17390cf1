package models

import "gorm.io/gorm"

// Lot is a purchase/grouping unit. Immutable from this service's perspective.
type Lot struct {
	gorm.Model
	LotNumber string `gorm:"not null;uniqueIndex" json:"lot_number"`
}
