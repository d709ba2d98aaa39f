package model

// Lot is a donation/receipt batch that one or more Units originate from.
// Treated as a lookup table by the dispense flow.
type Lot struct {
	BaseModel
	Code         string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	SourceName   string `gorm:"type:varchar(255)" json:"source_name"`
	ReceivedDate string `gorm:"type:varchar(10)" json:"received_date" validate:"omitempty,daana_date"`
	Note         string `gorm:"type:text" json:"note,omitempty"`
}
