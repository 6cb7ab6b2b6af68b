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

// PatientHandler handles patient record requests.
type PatientHandler struct {
	DB       *gorm.DB
	Registry *fields.Registry
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB, reg *fields.Registry) *PatientHandler {
	return &PatientHandler{DB: db, Registry: reg}
}

// PatientRequest represents the request body for creating or updating a
// patient. CustomValues is keyed by custom-field id.
type PatientRequest struct {
	ID                string            `json:"id" binding:"required"`
	Name              string            `json:"name" binding:"required"`
	DOB               string            `json:"dob"`
	Gender            string            `json:"gender"`
	Phone             string            `json:"phone"`
	Email             string            `json:"email"`
	Address           string            `json:"address"`
	EmergencyContact  string            `json:"emergencyContact"`
	InsuranceProvider string            `json:"insuranceProvider"`
	InsuranceNumber   string            `json:"insuranceNumber"`
	Allergies         string            `json:"allergies"`
	Medications       string            `json:"medications"`
	Diagnosis         string            `json:"diagnosis"`
	EquipmentRequired string            `json:"equipmentRequired"`
	Mobility          string            `json:"mobility"`
	CarePlan          string            `json:"carePlan"`
	Notes             string            `json:"notes"`
	CustomValues      map[string]string `json:"customValues"`
}

func (req *PatientRequest) apply(p *models.Patient) {
	p.Name = req.Name
	p.DOB = req.DOB
	p.Gender = req.Gender
	p.Phone = req.Phone
	p.Email = req.Email
	p.Address = req.Address
	p.EmergencyContact = req.EmergencyContact
	p.InsuranceProvider = req.InsuranceProvider
	p.InsuranceNumber = req.InsuranceNumber
	p.Allergies = req.Allergies
	p.Medications = req.Medications
	p.Diagnosis = req.Diagnosis
	p.EquipmentRequired = req.EquipmentRequired
	p.Mobility = req.Mobility
	p.CarePlan = req.CarePlan
	p.Notes = req.Notes
}

// CreatePatient handles creating a new patient record with custom values.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Patient
	if err := h.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
		utils.BadRequest(c, "Patient with this ID already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	// Validate custom values up front so a bad payload never leaves an
	// orphaned patient row behind.
	parsed, ok := checkCustomValues(c, h.Registry, fields.EntityPatients, req.CustomValues)
	if !ok {
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	patient := models.Patient{ID: req.ID, CreatedBy: username}
	req.apply(&patient)

	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}
	if !writeCustomValues(c, h.Registry, fields.EntityPatients, patient.ID, parsed) {
		return
	}

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients handles fetching all patients.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Order("id asc").Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID fetches one patient together with its stored custom values,
// so the edit form can pre-fill dynamic fields.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	values, err := h.Registry.ValuesForRecord(fields.EntityPatients, patient.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch custom values: "+err.Error())
		return
	}

	utils.Success(c, "Patient fetched successfully", gin.H{
		"patient":      patient,
		"customValues": values,
	})
}

// UpdatePatient handles updating a patient record (admin or creator only).
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	patientID := c.Param("id")

	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if !models.CanModify(role, username, patient.CreatedBy) {
		utils.Forbidden(c, "Only an admin or the creator can edit this patient")
		return
	}

	req.apply(&patient)
	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}
	if !saveCustomValues(c, h.Registry, fields.EntityPatients, patient.ID, req.CustomValues) {
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient removes a patient and cascades deletion of its custom values
// (admin or creator only). Deleting an absent patient is a no-op.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(c, "Patient deleted successfully", nil)
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	username, _ := middleware.GetUsernameFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if !models.CanModify(role, username, patient.CreatedBy) {
		utils.Forbidden(c, "Only an admin or the creator can delete this patient")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("entity = ? AND record_id = ?", fields.EntityPatients, patientID).
			Delete(&models.CustomValue{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", patientID).Delete(&models.Patient{}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient deleted successfully", nil)
}

// GetEmergencyContact returns the contact details needed by the emergency
// view for one patient.
func (h *PatientHandler) GetEmergencyContact(c *gin.Context) {
	patientID := c.Param("id")

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Emergency contact fetched successfully", gin.H{
		"patientId":        patient.ID,
		"name":             patient.Name,
		"phone":            patient.Phone,
		"address":          patient.Address,
		"emergencyContact": patient.EmergencyContact,
	})
}
