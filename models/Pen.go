package models

import "gorm.io/gorm"

// Pen is a physical enclosure. LotID is nil for lot-independent pens such as
// "Hospital", "Buller" and "Home".
type Pen struct {
	gorm.Model
	PenNumber string `gorm:"not null;uniqueIndex" json:"pen_number"`
	LotID     *uint  `json:"lot_id,omitempty"`
	Lot       *Lot   `gorm:"foreignKey:LotID" json:"lot,omitempty"`
}
