package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"homecare-scheduler-server/internal/models"
	"homecare-scheduler-server/internal/utils"
)

// ExportHandler is the export sink: it receives the plain tabular rows of
// each entity verbatim and renders them as CSV or an Excel workbook.
type ExportHandler struct {
	DB *gorm.DB
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// ExportCSV streams one table (patients, staff or schedule) as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	table := c.Param("table")

	header, rows, err := h.tableRows(table)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", table))
	w := csv.NewWriter(c.Writer)
	for _, row := range append([][]string{header}, rows...) {
		if err := w.Write(row); err != nil {
			// The client connection is gone; stop streaming.
			_ = c.Error(err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

// ExportExcel streams one workbook with a sheet per table.
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, table := range []string{"patients", "staff", "schedule"} {
		header, rows, err := h.tableRows(table)
		if err != nil {
			utils.InternalServerError(c, "Failed to export "+table+": "+err.Error())
			return
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table); err != nil {
				utils.InternalServerError(c, "Failed to create sheet: "+err.Error())
				return
			}
		} else {
			if _, err := f.NewSheet(table); err != nil {
				utils.InternalServerError(c, "Failed to create sheet: "+err.Error())
				return
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetSheetRow(table, cell, &header); err != nil {
			utils.InternalServerError(c, "Failed to write sheet "+table+": "+err.Error())
			return
		}
		for r, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(table, cell, &row); err != nil {
				utils.InternalServerError(c, "Failed to write sheet "+table+": "+err.Error())
				return
			}
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=homecare_data.xlsx")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		// Headers already sent; record the failure for the request log.
		_ = c.Error(err)
	}
}

func (h *ExportHandler) tableRows(table string) ([]string, [][]string, error) {
	switch table {
	case "patients":
		return h.patientRows()
	case "staff":
		return h.staffRows()
	case "schedule":
		return h.scheduleRows()
	default:
		return nil, nil, fmt.Errorf("unknown table %q", table)
	}
}

func (h *ExportHandler) patientRows() ([]string, [][]string, error) {
	var patients []models.Patient
	if err := h.DB.Order("id asc").Find(&patients).Error; err != nil {
		return nil, nil, err
	}
	header := []string{
		"id", "name", "dob", "gender", "phone", "email", "address",
		"emergency_contact", "insurance_provider", "insurance_number",
		"allergies", "medications", "diagnosis", "equipment_required",
		"mobility", "care_plan", "notes", "created_by", "created_at",
	}
	rows := make([][]string, len(patients))
	for i, p := range patients {
		rows[i] = []string{
			p.ID, p.Name, p.DOB, p.Gender, p.Phone, p.Email, p.Address,
			p.EmergencyContact, p.InsuranceProvider, p.InsuranceNumber,
			p.Allergies, p.Medications, p.Diagnosis, p.EquipmentRequired,
			p.Mobility, p.CarePlan, p.Notes, p.CreatedBy,
			p.CreatedAt.Format(time.RFC3339),
		}
	}
	return header, rows, nil
}

func (h *ExportHandler) staffRows() ([]string, [][]string, error) {
	var staff []models.Staff
	if err := h.DB.Order("id asc").Find(&staff).Error; err != nil {
		return nil, nil, err
	}
	header := []string{
		"id", "name", "role", "license_number", "specialties", "phone",
		"email", "availability", "notes", "created_by", "created_at",
	}
	rows := make([][]string, len(staff))
	for i, s := range staff {
		rows[i] = []string{
			s.ID, s.Name, s.Role, s.LicenseNumber, s.Specialties, s.Phone,
			s.Email, s.Availability, s.Notes, s.CreatedBy,
			s.CreatedAt.Format(time.RFC3339),
		}
	}
	return header, rows, nil
}

func (h *ExportHandler) scheduleRows() ([]string, [][]string, error) {
	var visits []models.Visit
	if err := h.DB.Order("date asc, start_time asc").Find(&visits).Error; err != nil {
		return nil, nil, err
	}
	header := []string{
		"visit_id", "patient_id", "staff_id", "date", "start_time",
		"end_time", "visit_type", "duration_minutes", "priority", "notes",
		"created_by", "created_at",
	}
	rows := make([][]string, len(visits))
	for i, v := range visits {
		rows[i] = []string{
			v.VisitID, v.PatientID, v.StaffID, v.Date, v.StartTime,
			v.EndTime, v.VisitType, strconv.Itoa(v.DurationMinutes),
			v.Priority, v.Notes, v.CreatedBy,
			v.CreatedAt.Format(time.RFC3339),
		}
	}
	return header, rows, nil
}
