package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kestrel/internal/models"
)

func newEquipmentRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := newTestDB(t, name)
	handler := NewEquipmentHandler(db)

	router := gin.New()
	router.POST("/api/equipment", handler.CreateEquipment)
	router.POST("/api/equipment/sessions", handler.StartSession)
	router.POST("/api/equipment/sessions/:id/end", handler.EndSession)
	router.GET("/api/equipment/sessions", handler.GetSessions)
	return router, db
}

func seedEquipmentOperators(t *testing.T, db *gorm.DB) (models.Equipment, models.Worker, models.Contractor) {
	t.Helper()

	item := models.Equipment{AssetCode: "EX-900", Name: "Excavator 900", Category: "excavator", Status: models.EquipmentStatusAvailable}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seeding equipment: %v", err)
	}
	worker := models.Worker{EmployeeID: "KM-6001", FirstName: "Grace", LastName: "Okafor"}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("seeding worker: %v", err)
	}
	contractor := models.Contractor{Company: "Redline Drilling", ContactName: "Sam Whitford"}
	if err := db.Create(&contractor).Error; err != nil {
		t.Fatalf("seeding contractor: %v", err)
	}
	return item, worker, contractor
}

func TestCreateEquipmentDuplicateAssetCode(t *testing.T) {
	router, db := newEquipmentRouter(t, "h_eq_dup")

	if err := db.Create(&models.Equipment{AssetCode: "HT-100", Name: "Haul Truck 100"}).Error; err != nil {
		t.Fatalf("seeding equipment: %v", err)
	}

	w := performRequest(router, http.MethodPost, "/api/equipment", gin.H{
		"asset_code": "HT-100",
		"name":       "Another Truck",
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestStartSessionFlipsStatus(t *testing.T) {
	router, db := newEquipmentRouter(t, "h_eq_start")
	item, worker, _ := seedEquipmentOperators(t, db)

	w := performRequest(router, http.MethodPost, "/api/equipment/sessions", gin.H{
		"equipment_id": item.ID,
		"worker_id":    worker.ID,
		"start_hours":  1204.5,
	})
	requireStatus(t, w, http.StatusCreated)

	var stored models.Equipment
	if err := db.First(&stored, item.ID).Error; err != nil {
		t.Fatalf("reloading equipment: %v", err)
	}
	if stored.Status != models.EquipmentStatusInUse {
		t.Fatalf("equipment status = %q, want in_use", stored.Status)
	}
}

func TestStartSessionOperatorExclusive(t *testing.T) {
	router, db := newEquipmentRouter(t, "h_eq_xor")
	item, worker, contractor := seedEquipmentOperators(t, db)

	cases := []struct {
		name string
		body gin.H
	}{
		{"no operator", gin.H{"equipment_id": item.ID}},
		{"both operators", gin.H{"equipment_id": item.ID, "worker_id": worker.ID, "contractor_id": contractor.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/api/equipment/sessions", tc.body)
			requireStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestStartSessionAlreadyActive(t *testing.T) {
	router, db := newEquipmentRouter(t, "h_eq_active")
	item, worker, contractor := seedEquipmentOperators(t, db)

	w := performRequest(router, http.MethodPost, "/api/equipment/sessions", gin.H{
		"equipment_id": item.ID,
		"worker_id":    worker.ID,
	})
	requireStatus(t, w, http.StatusCreated)

	w = performRequest(router, http.MethodPost, "/api/equipment/sessions", gin.H{
		"equipment_id":  item.ID,
		"contractor_id": contractor.ID,
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestEndSessionReleasesEquipment(t *testing.T) {
	router, db := newEquipmentRouter(t, "h_eq_end")
	item, worker, _ := seedEquipmentOperators(t, db)

	w := performRequest(router, http.MethodPost, "/api/equipment/sessions", gin.H{
		"equipment_id": item.ID,
		"worker_id":    worker.ID,
		"start_hours":  100.0,
	})
	requireStatus(t, w, http.StatusCreated)
	created := decodeBody(t, w)
	sessionID := int(created["id"].(float64))

	w = performRequest(router, http.MethodPost, fmt.Sprintf("/api/equipment/sessions/%d/end", sessionID), gin.H{
		"end_hours": 108.5,
		"fuel_used": 220.0,
	})
	requireStatus(t, w, http.StatusOK)

	var session models.UsageSession
	if err := db.First(&session, sessionID).Error; err != nil {
		t.Fatalf("reloading session: %v", err)
	}
	if session.IsActive() {
		t.Fatal("expected session to be closed")
	}
	if session.EndHours != 108.5 {
		t.Fatalf("end_hours = %v, want 108.5", session.EndHours)
	}

	var stored models.Equipment
	if err := db.First(&stored, item.ID).Error; err != nil {
		t.Fatalf("reloading equipment: %v", err)
	}
	if stored.Status != models.EquipmentStatusAvailable {
		t.Fatalf("equipment status = %q, want available", stored.Status)
	}

	// Ending twice conflicts.
	w = performRequest(router, http.MethodPost, fmt.Sprintf("/api/equipment/sessions/%d/end", sessionID), gin.H{
		"end_hours": 110.0,
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestGetSessionsActiveFilter(t *testing.T) {
	router, db := newEquipmentRouter(t, "h_eq_sessions")
	item, worker, _ := seedEquipmentOperators(t, db)

	now := time.Now()
	ended := now.Add(-time.Hour)
	sessions := []models.UsageSession{
		{EquipmentID: item.ID, WorkerID: &worker.ID, OperatorType: models.OperatorTypeWorker, StartTime: now.Add(-30 * time.Minute)},
		{EquipmentID: item.ID, WorkerID: &worker.ID, OperatorType: models.OperatorTypeWorker, StartTime: now.Add(-2 * time.Hour), EndTime: &ended},
	}
	for i := range sessions {
		if err := db.Create(&sessions[i]).Error; err != nil {
			t.Fatalf("seeding sessions: %v", err)
		}
	}

	w := performRequest(router, http.MethodGet, "/api/equipment/sessions?active=true", nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	if int(body["count"].(float64)) != 1 {
		t.Fatalf("active count = %v, want 1", body["count"])
	}

	w = performRequest(router, http.MethodGet, "/api/equipment/sessions?active=false", nil)
	requireStatus(t, w, http.StatusOK)
	body = decodeBody(t, w)
	if int(body["count"].(float64)) != 2 {
		t.Fatalf("unconstrained count = %v, want 2 (false is not a constraint)", body["count"])
	}
}
