package models

import (
	"fmt"
	"time"
)

// VisitTypes offered by the UI when scheduling a visit.
var VisitTypes = []string{
	"Home visit", "Telehealth", "Wound care", "Medication administration",
	"Physiotherapy", "Respiratory therapy", "Assessment", "Other",
}

// VisitPriorities offered by the UI when scheduling a visit.
var VisitPriorities = []string{"Low", "Normal", "High", "Critical"}

// Visit represents a scheduled home-care visit. Identity is the
// auto-incremented Seq column; VisitID is the human-readable zero-padded
// projection of it ("V00042") and is what every other table references.
type Visit struct {
	Seq             uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	VisitID         string    `gorm:"uniqueIndex;size:16" json:"visitId"`
	PatientID       string    `gorm:"size:64;index" json:"patientId"`
	StaffID         string    `gorm:"size:64;index" json:"staffId"`
	Date            string    `gorm:"size:10;index" json:"date"`    // YYYY-MM-DD
	StartTime       string    `gorm:"size:5" json:"startTime"`      // HH:MM
	EndTime         string    `gorm:"size:5" json:"endTime"`        // HH:MM
	VisitType       string    `gorm:"size:64" json:"visitType"`
	DurationMinutes int       `json:"durationMinutes"`
	Priority        string    `gorm:"size:16" json:"priority"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedBy       string    `gorm:"size:64" json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FormatVisitID renders the display id for a visit sequence number.
func FormatVisitID(seq uint) string {
	return fmt.Sprintf("V%05d", seq)
}
