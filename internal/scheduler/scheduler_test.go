package scheduler

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Visit{}, &models.CustomField{}, &models.CustomValue{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func visitParams(staffID, date, start, end string) CreateVisitParams {
	return CreateVisitParams{
		PatientID: "P001",
		StaffID:   staffID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		VisitType: "Home visit",
		Priority:  "Normal",
		CreatedBy: "doctor",
	}
}

func TestCreateVisitAssignsSequentialIDs(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	v1, err := s.CreateVisit(visitParams("S1", "2024-01-10", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("CreateVisit: %v", err)
	}
	v2, err := s.CreateVisit(visitParams("S2", "2024-01-10", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("CreateVisit: %v", err)
	}

	if v1.VisitID != "V00001" || v2.VisitID != "V00002" {
		t.Fatalf("visit ids = %q, %q", v1.VisitID, v2.VisitID)
	}
	if v1.DurationMinutes != 60 {
		t.Fatalf("duration = %d, want 60", v1.DurationMinutes)
	}

	// The id must also be persisted, not just set on the returned struct.
	stored, err := s.Visit("V00001")
	if err != nil {
		t.Fatalf("Visit: %v", err)
	}
	if stored.StaffID != "S1" {
		t.Fatalf("stored visit = %+v", stored)
	}
}

func TestCreateVisitRejectsInvalidRange(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	tests := []struct {
		name   string
		params CreateVisitParams
	}{
		{"end equals start", visitParams("S1", "2024-01-10", "09:00", "09:00")},
		{"end before start", visitParams("S1", "2024-01-10", "10:00", "09:00")},
		{"bad start", visitParams("S1", "2024-01-10", "9am", "10:00")},
		{"bad date", visitParams("S1", "Jan 10", "09:00", "10:00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateVisit(tt.params); !errors.Is(err, ErrInvalidTimeRange) {
				t.Fatalf("CreateVisit = %v, want ErrInvalidTimeRange", err)
			}
		})
	}

	visits, _ := s.ListVisits()
	if len(visits) != 0 {
		t.Fatalf("rejected visits were persisted: %v", visits)
	}
}

func TestCreateVisitMissingParticipant(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	p := visitParams("", "2024-01-10", "09:00", "10:00")
	if _, err := s.CreateVisit(p); !errors.Is(err, ErrMissingParticipant) {
		t.Fatalf("CreateVisit = %v, want ErrMissingParticipant", err)
	}
}

func TestOverlapDetection(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	if _, err := s.CreateVisit(visitParams("S1", "2024-01-10", "09:00", "10:00")); err != nil {
		t.Fatalf("seed visit: %v", err)
	}

	tests := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"contained", "09:30", "09:45", true},
		{"straddles start", "08:30", "09:15", true},
		{"straddles end", "09:30", "10:15", true},
		{"covers", "08:00", "11:00", true},
		{"identical", "09:00", "10:00", true},
		{"touching after", "10:00", "10:30", false},
		{"touching before", "08:00", "09:00", false},
		{"disjoint", "11:00", "12:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := s.CreateVisit(visitParams("S1", "2024-01-10", tt.start, tt.end))
			if tt.conflict {
				if !errors.Is(err, ErrStaffDoubleBooked) {
					t.Fatalf("CreateVisit = %v, want ErrStaffDoubleBooked", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateVisit: %v", err)
			}
			// Remove so later cases only contend with the seed visit.
			if err := s.DeleteVisit(v.VisitID, "doctor", models.RoleDoctor); err != nil {
				t.Fatalf("cleanup: %v", err)
			}
		})
	}
}

func TestNoConflictAcrossStaffOrDates(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	if _, err := s.CreateVisit(visitParams("S1", "2024-01-10", "09:00", "10:00")); err != nil {
		t.Fatalf("seed visit: %v", err)
	}
	// Same time, different staff member.
	if _, err := s.CreateVisit(visitParams("S2", "2024-01-10", "09:00", "10:00")); err != nil {
		t.Fatalf("different staff: %v", err)
	}
	// Same staff and time, different date.
	if _, err := s.CreateVisit(visitParams("S1", "2024-01-11", "09:00", "10:00")); err != nil {
		t.Fatalf("different date: %v", err)
	}
}

func TestDeleteVisitPermissions(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	v, err := s.CreateVisit(visitParams("S1", "2024-01-10", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("CreateVisit: %v", err)
	}

	// Neither admin nor creator.
	err = s.DeleteVisit(v.VisitID, "nurse_joy", models.RoleNurse)
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("DeleteVisit = %v, want ErrNotOwner", err)
	}
	if _, err := s.Visit(v.VisitID); err != nil {
		t.Fatalf("visit removed despite permission error: %v", err)
	}

	// Admin who is not the creator.
	if err := s.DeleteVisit(v.VisitID, "root", models.RoleAdmin); err != nil {
		t.Fatalf("admin DeleteVisit: %v", err)
	}
	if _, err := s.Visit(v.VisitID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("visit still present after delete: %v", err)
	}

	// Deleting an absent visit is a no-op.
	if err := s.DeleteVisit(v.VisitID, "root", models.RoleAdmin); err != nil {
		t.Fatalf("repeat DeleteVisit: %v", err)
	}
}

func TestDeleteVisitCascadesCustomValues(t *testing.T) {
	db := newTestDB(t)
	s := NewScheduler(db)
	reg := fields.NewRegistry(db)

	fieldID, err := reg.AddField(fields.EntitySchedule, "Mileage", models.FieldNumber, "", "", fields.PositionBelow)
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}

	v, err := s.CreateVisit(visitParams("S1", "2024-01-10", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("CreateVisit: %v", err)
	}
	if err := reg.SetValue(fields.EntitySchedule, v.VisitID, fieldID, "12"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if err := s.DeleteVisit(v.VisitID, "doctor", models.RoleDoctor); err != nil {
		t.Fatalf("DeleteVisit: %v", err)
	}
	if _, ok, _ := reg.Value(fields.EntitySchedule, v.VisitID, fieldID); ok {
		t.Fatal("custom value survived visit deletion")
	}
}

func TestUpcomingVisits(t *testing.T) {
	s := NewScheduler(newTestDB(t))

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, d := range []string{"2024-01-09", "2024-01-10", "2024-01-25", "2024-02-20"} {
		if _, err := s.CreateVisit(visitParams("S1", d, "09:00", "10:00")); err != nil {
			t.Fatalf("CreateVisit %s: %v", d, err)
		}
	}

	upcoming, err := s.UpcomingVisits(base, 30)
	if err != nil {
		t.Fatalf("UpcomingVisits: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("upcoming = %d visits, want 2", len(upcoming))
	}
	if upcoming[0].Date != "2024-01-10" || upcoming[1].Date != "2024-01-25" {
		t.Fatalf("upcoming dates = %s, %s", upcoming[0].Date, upcoming[1].Date)
	}
}
