package handlers

import (
	"net/http"
	"testing"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/models"
)

func visitBody(staffID, start, end string) map[string]interface{} {
	return map[string]interface{}{
		"patientId": "P001",
		"staffId":   staffID,
		"date":      "2024-01-10",
		"startTime": start,
		"endTime":   end,
		"visitType": "Home visit",
		"priority":  "Normal",
	}
}

func TestCreateVisitRejectedPayloadLeavesNothingBehind(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db, "doctor", models.RoleDoctor)

	w := doJSON(t, r, http.MethodPost, "/api/v1/fields", map[string]interface{}{
		"entity": fields.EntitySchedule,
		"name":   "Mileage",
		"type":   "number",
	})
	wantStatus(t, w, http.StatusCreated)
	var created struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &created)

	body := visitBody("S1", "09:00", "10:00")
	body["customValues"] = map[string]string{
		fieldKey(created.ID): "not-a-number",
	}
	w = doJSON(t, r, http.MethodPost, "/api/v1/visits", body)
	wantStatus(t, w, http.StatusBadRequest)

	// The rejected request must not have inserted the visit.
	var count int64
	db.Model(&models.Visit{}).Count(&count)
	if count != 0 {
		t.Fatalf("visit count after rejected create = %d, want 0", count)
	}

	// A retry with a valid value now succeeds instead of hitting a
	// double-booking against the rejected request's leftovers.
	body["customValues"] = map[string]string{fieldKey(created.ID): "12"}
	w = doJSON(t, r, http.MethodPost, "/api/v1/visits", body)
	wantStatus(t, w, http.StatusCreated)
}

func TestCreateVisitDoubleBookedReturnsConflict(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db, "doctor", models.RoleDoctor)

	w := doJSON(t, r, http.MethodPost, "/api/v1/visits", visitBody("S1", "09:00", "10:00"))
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/api/v1/visits", visitBody("S1", "09:30", "10:15"))
	wantStatus(t, w, http.StatusConflict)

	// Touching ranges are not a conflict.
	w = doJSON(t, r, http.MethodPost, "/api/v1/visits", visitBody("S1", "10:00", "10:30"))
	wantStatus(t, w, http.StatusCreated)
}

func TestCreateVisitInvalidRangeReturnsBadRequest(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db, "doctor", models.RoleDoctor)

	w := doJSON(t, r, http.MethodPost, "/api/v1/visits", visitBody("S1", "10:00", "09:00"))
	wantStatus(t, w, http.StatusBadRequest)
}

func TestVisitCustomValuesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db, "doctor", models.RoleDoctor)

	w := doJSON(t, r, http.MethodPost, "/api/v1/fields", map[string]interface{}{
		"entity": fields.EntitySchedule,
		"name":   "Transport",
		"type":   "dropdown",
		"options": "Car, Bike",
	})
	wantStatus(t, w, http.StatusCreated)
	var created struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &created)

	body := visitBody("S1", "09:00", "10:00")
	body["customValues"] = map[string]string{fieldKey(created.ID): "Bike"}
	w = doJSON(t, r, http.MethodPost, "/api/v1/visits", body)
	wantStatus(t, w, http.StatusCreated)
	var visit models.Visit
	decodeData(t, w, &visit)

	w = doJSON(t, r, http.MethodGet, "/api/v1/visits/"+visit.VisitID, nil)
	wantStatus(t, w, http.StatusOK)
	var fetched struct {
		Visit        models.Visit      `json:"visit"`
		CustomValues map[string]string `json:"customValues"`
	}
	decodeData(t, w, &fetched)
	if fetched.Visit.VisitID != visit.VisitID {
		t.Fatalf("fetched visit id = %q, want %q", fetched.Visit.VisitID, visit.VisitID)
	}
	if got := fetched.CustomValues[fieldKey(created.ID)]; got != "Bike" {
		t.Fatalf("custom value = %q, want %q", got, "Bike")
	}
}

func TestDeleteVisitForbiddenForNonCreator(t *testing.T) {
	db := newTestDB(t)
	creator := testRouter(db, "doctor", models.RoleDoctor)
	other := testRouter(db, "nurse_joy", models.RoleNurse)

	w := doJSON(t, creator, http.MethodPost, "/api/v1/visits", visitBody("S1", "09:00", "10:00"))
	wantStatus(t, w, http.StatusCreated)
	var visit models.Visit
	decodeData(t, w, &visit)

	w = doJSON(t, other, http.MethodDelete, "/api/v1/visits/"+visit.VisitID, nil)
	wantStatus(t, w, http.StatusForbidden)

	// The visit must survive the rejected delete.
	w = doJSON(t, creator, http.MethodGet, "/api/v1/visits/"+visit.VisitID, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, creator, http.MethodDelete, "/api/v1/visits/"+visit.VisitID, nil)
	wantStatus(t, w, http.StatusOK)
}
