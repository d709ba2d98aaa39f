package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // PHARMACIST_ADMIN, OPERATOR
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RolePharmacistAdmin = "PHARMACIST_ADMIN"
	RoleOperator        = "OPERATOR"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RolePharmacistAdmin,
		Name:        "Pharmacist Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleOperator,
		Name:        "Operator",
		Description: "Day-to-day check-in, dispense, and browsing access",
	},
}
