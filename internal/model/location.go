package model

// TempClass is the storage temperature class of a location
type TempClass string

const (
	TempRoom    TempClass = "room"
	TempFridge  TempClass = "fridge"
	TempFreezer TempClass = "freezer"
)

// Location is a physical storage place (shelf, cabinet, fridge).
// Treated as a lookup table by the dispense flow; Units cache its name.
type Location struct {
	BaseModel
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	TempClass TempClass `gorm:"type:varchar(10);not null;default:'room'" json:"temp_class" validate:"omitempty,oneof=room fridge freezer"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
}

// DefaultLocations seeded on first boot so check-in has somewhere to put stock
var DefaultLocations = []Location{
	{Name: "Main Shelf", TempClass: TempRoom},
	{Name: "Refrigerator", TempClass: TempFridge},
}
