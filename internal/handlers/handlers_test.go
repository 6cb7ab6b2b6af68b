package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/models"
	"homecare-scheduler-server/internal/scheduler"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Patient{}, &models.Staff{},
		&models.Visit{}, &models.CustomField{}, &models.CustomValue{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testRouter wires the handlers under test behind a stub auth middleware that
// injects the given identity, standing in for the JWT layer.
func testRouter(db *gorm.DB, username string, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := fields.NewRegistry(db)
	sched := scheduler.NewScheduler(db)

	patientHandler := NewPatientHandler(db, registry)
	visitHandler := NewVisitHandler(sched, registry)
	fieldHandler := NewFieldHandler(registry)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("username", username)
		c.Set("userRole", role)
	})

	api.POST("/patients", patientHandler.CreatePatient)
	api.GET("/patients", patientHandler.GetPatients)
	api.GET("/patients/:id", patientHandler.GetPatientByID)
	api.PUT("/patients/:id", patientHandler.UpdatePatient)

	api.POST("/visits", visitHandler.CreateVisit)
	api.GET("/visits", visitHandler.GetVisits)
	api.GET("/visits/:id", visitHandler.GetVisitByID)
	api.DELETE("/visits/:id", visitHandler.DeleteVisit)

	api.POST("/fields", fieldHandler.AddField)
	api.GET("/fields/:entity", fieldHandler.ListFields)
	api.GET("/fields/:entity/layout", fieldHandler.GetLayout)
	api.PUT("/fields/:entity/reorder", fieldHandler.ReorderFields)
	api.DELETE("/fields/:id", fieldHandler.RemoveField)

	return r
}

// fieldKey renders a custom-field id the way JSON object keys carry it.
func fieldKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope's data payload into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
