package scheduler

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/models"
)

var (
	// ErrInvalidTimeRange is returned when a visit's end is not strictly
	// after its start, or a time/date does not parse.
	ErrInvalidTimeRange = errors.New("visit end must be after start")

	// ErrStaffDoubleBooked is returned when the staff member already has a
	// visit overlapping the proposed time range on the same date.
	ErrStaffDoubleBooked = errors.New("staff member is already booked in this time range")

	// ErrMissingParticipant is returned when patient or staff id is blank.
	ErrMissingParticipant = errors.New("patient and staff are required")

	// ErrNotOwner is returned when a requester without admin role tries to
	// delete a visit they did not create.
	ErrNotOwner = errors.New("only an admin or the visit creator may delete a visit")
)

// Scheduler creates and deletes visits, enforcing the no-double-booking rule
// for staff members.
type Scheduler struct {
	db *gorm.DB
}

// NewScheduler creates a Scheduler backed by the given database.
func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{db: db}
}

// CreateVisitParams carries the caller-supplied attributes of a proposed
// visit. Patient and staff ids are a caller contract; their existence is not
// re-validated here.
type CreateVisitParams struct {
	PatientID string
	StaffID   string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
	VisitType string
	Priority  string
	Notes     string
	CreatedBy string
}

// CreateVisit validates the proposed time range, rejects it if the staff
// member has an overlapping visit on the same date, and otherwise persists
// it. The visit id is the zero-padded projection of the storage counter,
// assigned inside the insert transaction.
func (s *Scheduler) CreateVisit(p CreateVisitParams) (*models.Visit, error) {
	if p.PatientID == "" || p.StaffID == "" {
		return nil, ErrMissingParticipant
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidTimeRange, p.Date)
	}
	start, err := parseMinutes(p.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseMinutes(p.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, ErrInvalidTimeRange
	}

	existing, err := s.VisitsForStaffDate(p.StaffID, p.Date)
	if err != nil {
		return nil, err
	}
	for _, v := range existing {
		s2, err1 := parseMinutes(v.StartTime)
		e2, err2 := parseMinutes(v.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if overlaps(start, end, s2, e2) {
			return nil, ErrStaffDoubleBooked
		}
	}

	visit := models.Visit{
		PatientID:       p.PatientID,
		StaffID:         p.StaffID,
		Date:            p.Date,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		VisitType:       p.VisitType,
		DurationMinutes: end - start,
		Priority:        p.Priority,
		Notes:           p.Notes,
		CreatedBy:       p.CreatedBy,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&visit).Error; err != nil {
			return err
		}
		visit.VisitID = models.FormatVisitID(visit.Seq)
		return tx.Model(&models.Visit{}).Where("seq = ?", visit.Seq).
			Update("visit_id", visit.VisitID).Error
	})
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// DeleteVisit removes a visit and cascades deletion of its custom values.
// Only an admin or the visit's creator may delete it; deleting a visit that
// no longer exists is a no-op.
func (s *Scheduler) DeleteVisit(visitID, requester string, role models.Role) error {
	var visit models.Visit
	err := s.db.Where("visit_id = ?", visitID).First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !models.CanModify(role, requester, visit.CreatedBy) {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("entity = ? AND record_id = ?", fields.EntitySchedule, visitID).
			Delete(&models.CustomValue{}).Error
		if err != nil {
			return err
		}
		return tx.Where("visit_id = ?", visitID).Delete(&models.Visit{}).Error
	})
}

// Visit fetches one visit by its display id.
func (s *Scheduler) Visit(visitID string) (*models.Visit, error) {
	var visit models.Visit
	if err := s.db.Where("visit_id = ?", visitID).First(&visit).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// ListVisits returns all visits ordered by date and start time.
func (s *Scheduler) ListVisits() ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Order("date asc, start_time asc").Find(&visits).Error
	return visits, err
}

// VisitsForStaffDate returns the persisted visits of one staff member on one
// calendar date (exact string match).
func (s *Scheduler) VisitsForStaffDate(staffID, date string) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.Where("staff_id = ? AND date = ?", staffID, date).Find(&visits).Error
	return visits, err
}

// UpcomingVisits returns visits dated between from and from+days inclusive,
// ordered by date and start time.
func (s *Scheduler) UpcomingVisits(from time.Time, days int) ([]models.Visit, error) {
	lo := from.Format("2006-01-02")
	hi := from.AddDate(0, 0, days).Format("2006-01-02")
	var visits []models.Visit
	err := s.db.Where("date >= ? AND date <= ?", lo, hi).
		Order("date asc, start_time asc").Find(&visits).Error
	return visits, err
}

// parseMinutes converts an HH:MM wall-clock string to minutes since
// midnight.
func parseMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidTimeRange, hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching boundaries do not overlap.
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}
