package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homecare-scheduler-server/internal/models"
	"homecare-scheduler-server/internal/scheduler"
	"homecare-scheduler-server/internal/utils"
)

// AnalyticsHandler serves the dashboard counters and the tabular projections
// behind the analytics charts. Chart rendering stays in the UI; these
// endpoints only aggregate rows.
type AnalyticsHandler struct {
	DB        *gorm.DB
	Scheduler *scheduler.Scheduler
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB, s *scheduler.Scheduler) *AnalyticsHandler {
	return &AnalyticsHandler{DB: db, Scheduler: s}
}

// GetDashboard returns entity counts and the visits of the next 30 days.
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	var patientCount, staffCount, visitCount int64
	if err := h.DB.Model(&models.Patient{}).Count(&patientCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to count patients: "+err.Error())
		return
	}
	if err := h.DB.Model(&models.Staff{}).Count(&staffCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to count staff: "+err.Error())
		return
	}
	if err := h.DB.Model(&models.Visit{}).Count(&visitCount).Error; err != nil {
		utils.InternalServerError(c, "Failed to count visits: "+err.Error())
		return
	}

	upcoming, err := h.Scheduler.UpcomingVisits(time.Now(), 30)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch upcoming visits: "+err.Error())
		return
	}
	if len(upcoming) > 100 {
		upcoming = upcoming[:100]
	}

	utils.Success(c, "Dashboard fetched successfully", gin.H{
		"patients":       patientCount,
		"staff":          staffCount,
		"visits":         visitCount,
		"upcomingVisits": upcoming,
	})
}

// ageGroup is one bucket of the patients-by-age projection.
type ageGroup struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

var ageGroupBounds = []struct {
	label string
	max   int // inclusive upper bound in years
}{
	{"<1", 0},
	{"1-5", 5},
	{"6-12", 12},
	{"13-18", 18},
	{"19-40", 40},
	{"41-65", 65},
	{"66+", 200},
}

// GetAgeGroups buckets patients by age computed from date of birth. Patients
// with an unparseable date of birth are counted in the first bucket, matching
// the dashboard's fill-with-zero behavior.
func (h *AnalyticsHandler) GetAgeGroups(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	groups := make([]ageGroup, len(ageGroupBounds))
	for i, b := range ageGroupBounds {
		groups[i].Group = b.label
	}
	now := time.Now()
	for _, p := range patients {
		age := 0
		if dob, err := time.Parse("2006-01-02", p.DOB); err == nil {
			age = int(now.Sub(dob).Hours() / 24 / 365)
		}
		for i, b := range ageGroupBounds {
			if age <= b.max {
				groups[i].Count++
				break
			}
		}
	}

	utils.Success(c, "Age groups fetched successfully", groups)
}

// workloadRow is one staff member's visit count.
type workloadRow struct {
	StaffID string `json:"staffId"`
	Visits  int    `json:"visits"`
}

// GetStaffWorkload returns visits-per-staff counts.
func (h *AnalyticsHandler) GetStaffWorkload(c *gin.Context) {
	var rows []workloadRow
	err := h.DB.Model(&models.Visit{}).
		Select("staff_id, count(*) as visits").
		Group("staff_id").Order("visits desc").Scan(&rows).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to aggregate workload: "+err.Error())
		return
	}
	utils.Success(c, "Staff workload fetched successfully", rows)
}

// visitTypeRow is one visit type's count.
type visitTypeRow struct {
	VisitType string `json:"visitType"`
	Count     int    `json:"count"`
}

// GetVisitTypes returns the distribution of visits over visit types.
func (h *AnalyticsHandler) GetVisitTypes(c *gin.Context) {
	var rows []visitTypeRow
	err := h.DB.Model(&models.Visit{}).
		Select("visit_type, count(*) as count").
		Group("visit_type").Order("count desc").Scan(&rows).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to aggregate visit types: "+err.Error())
		return
	}
	utils.Success(c, "Visit types fetched successfully", rows)
}
