package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kestrel/internal/models"
	"kestrel/internal/utils"
)

func newScannerRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := newTestDB(t, name)
	handler := NewScannerHandler(db, utils.NewScanService(db, zap.NewNop()), zap.NewNop())

	router := gin.New()
	router.POST("/scanner/scan", handler.RecordScan)
	router.GET("/api/scanner", handler.GetScans)
	router.GET("/api/scanner/:id", handler.GetScan)
	return router, db
}

func TestRecordScanEndpoint(t *testing.T) {
	router, db := newScannerRouter(t, "h_scan_record")

	worker := models.Worker{EmployeeID: "KM-4001", FirstName: "Grace", LastName: "Okafor", Status: models.WorkerStatusActive}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("seeding worker: %v", err)
	}

	w := performRequest(router, http.MethodPost, "/scanner/scan", gin.H{
		"worker_id": worker.ID,
		"status":    "success",
		"location":  "North Pit Gate",
	})
	requireStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	if body["scan"] == nil {
		t.Fatal("expected scan in response")
	}
	workerBody, ok := body["worker"].(map[string]interface{})
	if !ok {
		t.Fatal("expected worker in response")
	}
	if workerBody["employee_id"] != "KM-4001" {
		t.Fatalf("worker employee_id = %v, want KM-4001", workerBody["employee_id"])
	}

	var stored models.Worker
	if err := db.First(&stored, worker.ID).Error; err != nil {
		t.Fatalf("reloading worker: %v", err)
	}
	if stored.LastSeen == nil {
		t.Fatal("expected last_seen to be updated")
	}
}

func TestRecordScanEndpointUnknownWorker(t *testing.T) {
	router, db := newScannerRouter(t, "h_scan_unknown")

	w := performRequest(router, http.MethodPost, "/scanner/scan", gin.H{
		"worker_id": 999,
		"status":    "success",
	})
	requireStatus(t, w, http.StatusNotFound)

	var count int64
	if err := db.Model(&models.ScanRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("counting scans: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no scan records, got %d", count)
	}
}

func TestRecordScanEndpointValidation(t *testing.T) {
	router, _ := newScannerRouter(t, "h_scan_invalid")

	w := performRequest(router, http.MethodPost, "/scanner/scan", gin.H{
		"location": "Workshop",
	})
	requireStatus(t, w, http.StatusBadRequest)

	body := decodeBody(t, w)
	if body["error"] == nil {
		t.Fatal("expected an error message")
	}
}

func TestGetScansEndpoint(t *testing.T) {
	router, db := newScannerRouter(t, "h_scan_list")

	worker := models.Worker{EmployeeID: "KM-4002", FirstName: "Daniel", LastName: "Reyes", Status: models.WorkerStatusActive}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("seeding worker: %v", err)
	}

	now := time.Now()
	seed := []models.ScanRecord{
		{Reference: "s-1", WorkerID: &worker.ID, Outcome: models.ScanOutcomeSuccess, Timestamp: now},
		{Reference: "s-2", Outcome: models.ScanOutcomeError, Timestamp: now.Add(-time.Minute)},
		{Reference: "s-3", Outcome: models.ScanOutcomeNotFound, Timestamp: now.Add(-48 * time.Hour)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seeding scans: %v", err)
		}
	}

	w := performRequest(router, http.MethodGet, "/api/scanner", nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if body["count"].(float64) != 3 {
		t.Fatalf("count = %v, want 3", body["count"])
	}

	stats, ok := body["todayStats"].(map[string]interface{})
	if !ok {
		t.Fatal("expected todayStats in response")
	}
	if stats["success"].(float64) != 1 {
		t.Fatalf("today success = %v, want 1", stats["success"])
	}
	if stats["not_found"].(float64) != 0 {
		t.Fatalf("today not_found = %v, want 0 (older than midnight)", stats["not_found"])
	}
}
