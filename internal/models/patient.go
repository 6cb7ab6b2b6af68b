package models

import (
	"time"
)

// Patient represents a home-care patient record. The ID is operator-assigned
// (e.g. "P001") rather than generated.
type Patient struct {
	ID                string    `gorm:"primaryKey;size:64" json:"id"`
	Name              string    `gorm:"size:255" json:"name"`
	DOB               string    `gorm:"column:dob;size:10" json:"dob"` // YYYY-MM-DD
	Gender            string    `gorm:"size:32" json:"gender"`
	Phone             string    `gorm:"size:64" json:"phone"`
	Email             string    `gorm:"size:255" json:"email"`
	Address           string    `gorm:"type:text" json:"address"`
	EmergencyContact  string    `gorm:"size:255" json:"emergencyContact"`
	InsuranceProvider string    `gorm:"size:255" json:"insuranceProvider"`
	InsuranceNumber   string    `gorm:"size:64" json:"insuranceNumber"`
	Allergies         string    `gorm:"type:text" json:"allergies"`
	Medications       string    `gorm:"type:text" json:"medications"`
	Diagnosis         string    `gorm:"type:text" json:"diagnosis"`
	EquipmentRequired string    `gorm:"type:text" json:"equipmentRequired"`
	Mobility          string    `gorm:"size:32" json:"mobility"`
	CarePlan          string    `gorm:"type:text" json:"carePlan"`
	Notes             string    `gorm:"type:text" json:"notes"`
	CreatedBy         string    `gorm:"size:64" json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
