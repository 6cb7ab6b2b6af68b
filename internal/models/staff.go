package models

import (
	"time"
)

// StaffRole values offered by the UI for the staff role field.
var StaffRoles = []string{"Specialist", "GP", "Nurse", "RT", "PT", "Care Giver"}

// Staff represents a care-team member. The ID is operator-assigned.
type Staff struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:255" json:"name"`
	Role          string    `gorm:"size:64" json:"role"`
	LicenseNumber string    `gorm:"size:64" json:"licenseNumber"`
	Specialties   string    `gorm:"size:255" json:"specialties"`
	Phone         string    `gorm:"size:64" json:"phone"`
	Email         string    `gorm:"size:255" json:"email"`
	Availability  string    `gorm:"size:255" json:"availability"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedBy     string    `gorm:"size:64" json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName keeps the table singular; gorm would pluralize to "staffs".
func (Staff) TableName() string {
	return "staff"
}
