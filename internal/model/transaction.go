package model

type TransactionType string

const (
	TxCheckIn  TransactionType = "check_in"
	TxCheckOut TransactionType = "check_out"
	TxAdjust   TransactionType = "adjust"
	TxMove     TransactionType = "move"
)

// Transaction is an immutable audit record of one inventory-affecting
// event. It references the unit's external Daana ID rather than its row
// id so the record survives unit deletion. No service flow ever updates
// or deletes a transaction once written.
type Transaction struct {
	BaseModel
	DaanaID string          `gorm:"type:varchar(50);not null;index" json:"daana_id" validate:"required"`
	Type    TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=check_in check_out adjust move"`

	// Nil for events that do not move quantity (move)
	Quantity *int `json:"quantity,omitempty"`

	// Pseudonymous patient reference code only; never PHI
	PatientRef string `gorm:"type:varchar(100)" json:"patient_ref,omitempty"`
	Note       string `gorm:"type:text" json:"note,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
