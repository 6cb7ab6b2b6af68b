package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/middleware"
	"homecare-scheduler-server/internal/scheduler"
	"homecare-scheduler-server/internal/utils"
)

// VisitHandler handles visit scheduling requests.
type VisitHandler struct {
	Scheduler *scheduler.Scheduler
	Registry  *fields.Registry
}

// NewVisitHandler creates a new VisitHandler.
func NewVisitHandler(s *scheduler.Scheduler, reg *fields.Registry) *VisitHandler {
	return &VisitHandler{Scheduler: s, Registry: reg}
}

// CreateVisitRequest represents the request body for scheduling a visit.
type CreateVisitRequest struct {
	PatientID    string            `json:"patientId" binding:"required"`
	StaffID      string            `json:"staffId" binding:"required"`
	Date         string            `json:"date" binding:"required"`
	StartTime    string            `json:"startTime" binding:"required"`
	EndTime      string            `json:"endTime" binding:"required"`
	VisitType    string            `json:"visitType"`
	Priority     string            `json:"priority"`
	Notes        string            `json:"notes"`
	CustomValues map[string]string `json:"customValues"`
}

// CreateVisit schedules a new visit, rejecting it when the staff member is
// already booked in an overlapping time range on the same date.
func (h *VisitHandler) CreateVisit(c *gin.Context) {
	var req CreateVisitRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Validate custom values up front so a bad payload never leaves an
	// orphaned visit behind.
	parsed, ok := checkCustomValues(c, h.Registry, fields.EntitySchedule, req.CustomValues)
	if !ok {
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	visit, err := h.Scheduler.CreateVisit(scheduler.CreateVisitParams{
		PatientID: req.PatientID,
		StaffID:   req.StaffID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		VisitType: req.VisitType,
		Priority:  req.Priority,
		Notes:     req.Notes,
		CreatedBy: username,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrStaffDoubleBooked):
			utils.Conflict(c, err.Error())
		case errors.Is(err, scheduler.ErrInvalidTimeRange),
			errors.Is(err, scheduler.ErrMissingParticipant):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalServerError(c, "Failed to create visit: "+err.Error())
		}
		return
	}

	if !writeCustomValues(c, h.Registry, fields.EntitySchedule, visit.VisitID, parsed) {
		return
	}

	utils.Created(c, "Visit created successfully", visit)
}

// GetVisits handles fetching all visits ordered by date and start time.
func (h *VisitHandler) GetVisits(c *gin.Context) {
	visits, err := h.Scheduler.ListVisits()
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch visits: "+err.Error())
		return
	}
	utils.Success(c, "Visits fetched successfully", visits)
}

// GetVisitByID fetches one visit together with its stored custom values.
func (h *VisitHandler) GetVisitByID(c *gin.Context) {
	visitID := c.Param("id")

	visit, err := h.Scheduler.Visit(visitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Visit not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	values, err := h.Registry.ValuesForRecord(fields.EntitySchedule, visitID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch custom values: "+err.Error())
		return
	}

	utils.Success(c, "Visit fetched successfully", gin.H{
		"visit":        visit,
		"customValues": values,
	})
}

// DeleteVisit removes a visit (admin or creator only).
func (h *VisitHandler) DeleteVisit(c *gin.Context) {
	visitID := c.Param("id")

	username, _ := middleware.GetUsernameFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	if err := h.Scheduler.DeleteVisit(visitID, username, role); err != nil {
		if errors.Is(err, scheduler.ErrNotOwner) {
			utils.Forbidden(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to delete visit: "+err.Error())
		}
		return
	}

	utils.Success(c, "Visit deleted successfully", nil)
}
