package model

import "github.com/google/uuid"

// UnitStatus is the lifecycle state of a stock unit
type UnitStatus string

const (
	StatusInStock     UnitStatus = "in_stock"
	StatusPartial     UnitStatus = "partial"
	StatusDispensed   UnitStatus = "dispensed"
	StatusExpired     UnitStatus = "expired"
	StatusDiscarded   UnitStatus = "discarded"
	StatusQuarantined UnitStatus = "quarantined"
)

// Unit is one lot-tracked batch of a medication at a location.
// QtyTotal is the remaining available quantity; a unit that reaches 0
// is deleted outright rather than kept as a zero-quantity row.
type Unit struct {
	BaseModel
	DaanaID string `gorm:"type:varchar(50);uniqueIndex;not null" json:"daana_id" validate:"required"`

	LotID *uuid.UUID `gorm:"type:uuid;index" json:"lot_id,omitempty"`
	Lot   *Lot       `gorm:"foreignKey:LotID" json:"lot,omitempty"`

	// Medication identity
	MedGeneric string `gorm:"type:varchar(255);not null" json:"med_generic" validate:"required"`
	MedBrand   string `gorm:"type:varchar(255)" json:"med_brand"`
	Strength   string `gorm:"type:varchar(50);not null" json:"strength" validate:"required"`
	Form       string `gorm:"type:varchar(50)" json:"form"`
	NDC        string `gorm:"type:varchar(20)" json:"ndc"`

	QtyTotal int `gorm:"not null;default:0" json:"qty_total"`

	// Stored as YYYY-MM-DD so expiry ordering is a plain string compare
	ExpDate string `gorm:"type:varchar(10);not null;index" json:"exp_date" validate:"required,daana_date"`

	LocationID   *uuid.UUID `gorm:"type:uuid;index" json:"location_id,omitempty"`
	Location     *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	LocationName string     `gorm:"type:varchar(255)" json:"location_name"` // Cached display name

	Status UnitStatus `gorm:"type:varchar(20);not null;default:'in_stock'" json:"status"`

	// Serialized QR payload handed to label printers and scanners
	QRPayload string `gorm:"type:text" json:"qr_payload"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}

// Dispensable reports whether stock may still be taken from the unit.
// Terminal and held states block dispensing regardless of quantity.
func (u *Unit) Dispensable() bool {
	switch u.Status {
	case StatusDispensed, StatusDiscarded, StatusExpired, StatusQuarantined:
		return false
	}
	return true
}

// SameMedication reports whether two units hold the same generic at the
// same strength, the grouping FEFO ordering applies within.
func (u *Unit) SameMedication(v *Unit) bool {
	return u.MedGeneric == v.MedGeneric && u.Strength == v.Strength
}
