package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/middleware"
	"homecare-scheduler-server/internal/models"
	"homecare-scheduler-server/internal/utils"
)

// StaffHandler handles staff record requests.
type StaffHandler struct {
	DB       *gorm.DB
	Registry *fields.Registry
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(db *gorm.DB, reg *fields.Registry) *StaffHandler {
	return &StaffHandler{DB: db, Registry: reg}
}

// StaffRequest represents the request body for creating or updating a staff
// member. CustomValues is keyed by custom-field id.
type StaffRequest struct {
	ID            string            `json:"id" binding:"required"`
	Name          string            `json:"name" binding:"required"`
	Role          string            `json:"role"`
	LicenseNumber string            `json:"licenseNumber"`
	Specialties   string            `json:"specialties"`
	Phone         string            `json:"phone"`
	Email         string            `json:"email"`
	Availability  string            `json:"availability"`
	Notes         string            `json:"notes"`
	CustomValues  map[string]string `json:"customValues"`
}

func (req *StaffRequest) apply(s *models.Staff) {
	s.Name = req.Name
	s.Role = req.Role
	s.LicenseNumber = req.LicenseNumber
	s.Specialties = req.Specialties
	s.Phone = req.Phone
	s.Email = req.Email
	s.Availability = req.Availability
	s.Notes = req.Notes
}

// CreateStaff handles creating a new staff record with custom values.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req StaffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Staff
	if err := h.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
		utils.BadRequest(c, "Staff member with this ID already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	// Validate custom values up front so a bad payload never leaves an
	// orphaned staff row behind.
	parsed, ok := checkCustomValues(c, h.Registry, fields.EntityStaff, req.CustomValues)
	if !ok {
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	staff := models.Staff{ID: req.ID, CreatedBy: username}
	req.apply(&staff)

	if err := h.DB.Create(&staff).Error; err != nil {
		utils.InternalServerError(c, "Failed to create staff member: "+err.Error())
		return
	}
	if !writeCustomValues(c, h.Registry, fields.EntityStaff, staff.ID, parsed) {
		return
	}

	utils.Created(c, "Staff member created successfully", staff)
}

// GetStaff handles fetching all staff members.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	var staff []models.Staff
	if err := h.DB.Order("id asc").Find(&staff).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch staff: "+err.Error())
		return
	}
	utils.Success(c, "Staff fetched successfully", staff)
}

// GetStaffByID fetches one staff member together with stored custom values.
func (h *StaffHandler) GetStaffByID(c *gin.Context) {
	staffID := c.Param("id")

	var staff models.Staff
	if err := h.DB.First(&staff, "id = ?", staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Staff member not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	values, err := h.Registry.ValuesForRecord(fields.EntityStaff, staff.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch custom values: "+err.Error())
		return
	}

	utils.Success(c, "Staff member fetched successfully", gin.H{
		"staff":        staff,
		"customValues": values,
	})
}

// UpdateStaff handles updating a staff record (admin or creator only).
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	staffID := c.Param("id")

	var req StaffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var staff models.Staff
	if err := h.DB.First(&staff, "id = ?", staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Staff member not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if !models.CanModify(role, username, staff.CreatedBy) {
		utils.Forbidden(c, "Only an admin or the creator can edit this staff member")
		return
	}

	req.apply(&staff)
	if err := h.DB.Save(&staff).Error; err != nil {
		utils.InternalServerError(c, "Failed to update staff member: "+err.Error())
		return
	}
	if !saveCustomValues(c, h.Registry, fields.EntityStaff, staff.ID, req.CustomValues) {
		return
	}

	utils.Success(c, "Staff member updated successfully", staff)
}

// DeleteStaff removes a staff member and cascades deletion of its custom
// values (admin or creator only).
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	staffID := c.Param("id")

	var staff models.Staff
	if err := h.DB.First(&staff, "id = ?", staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(c, "Staff member deleted successfully", nil)
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if !models.CanModify(role, username, staff.CreatedBy) {
		utils.Forbidden(c, "Only an admin or the creator can delete this staff member")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("entity = ? AND record_id = ?", fields.EntityStaff, staffID).
			Delete(&models.CustomValue{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", staffID).Delete(&models.Staff{}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete staff member: "+err.Error())
		return
	}

	utils.Success(c, "Staff member deleted successfully", nil)
}
