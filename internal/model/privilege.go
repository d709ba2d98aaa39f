package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "unit:dispense"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Dispense Unit"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Inventory units
	{Code: "unit:view", Name: "View Unit"},
	{Code: "unit:checkin", Name: "Check In Unit"},
	{Code: "unit:dispense", Name: "Dispense Unit"},
	{Code: "unit:move", Name: "Move Unit"},
	{Code: "unit:adjust", Name: "Adjust Unit Quantity"},
	// Audit transactions
	{Code: "transaction:view", Name: "View Transaction"},
	// Reports
	{Code: "report:view", Name: "View Reports"},
	// Lookup table administration
	{Code: "location:manage", Name: "Manage Locations"},
	{Code: "lot:manage", Name: "Manage Lots"},
}
