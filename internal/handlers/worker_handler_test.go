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

func newWorkerRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := newTestDB(t, name)
	handler := NewWorkerHandler(db, nil)

	router := gin.New()
	router.GET("/api/workers", handler.GetWorkers)
	router.GET("/api/workers/:id", handler.GetWorker)
	router.POST("/api/workers", handler.CreateWorker)
	router.PUT("/api/workers/:id", handler.UpdateWorker)
	router.DELETE("/api/workers/:id", handler.DeleteWorker)
	router.GET("/api/workers/:id/documents", handler.GetWorkerDocuments)
	return router, db
}

func TestCreateWorker(t *testing.T) {
	router, _ := newWorkerRouter(t, "h_worker_create")

	w := performRequest(router, http.MethodPost, "/api/workers", gin.H{
		"employee_id": "KM-5001",
		"first_name":  "Grace",
		"last_name":   "Okafor",
		"department":  "Operations",
	})
	requireStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	if body["status"] != "pending" {
		t.Fatalf("default status = %v, want pending", body["status"])
	}
}

func TestCreateWorkerDuplicateEmployeeID(t *testing.T) {
	router, db := newWorkerRouter(t, "h_worker_dup")

	existing := models.Worker{EmployeeID: "KM-5002", FirstName: "Daniel", LastName: "Reyes"}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seeding worker: %v", err)
	}

	w := performRequest(router, http.MethodPost, "/api/workers", gin.H{
		"employee_id": "KM-5002",
		"first_name":  "Other",
		"last_name":   "Person",
	})
	requireStatus(t, w, http.StatusConflict)
}

func TestCreateWorkerMissingFields(t *testing.T) {
	router, _ := newWorkerRouter(t, "h_worker_missing")

	w := performRequest(router, http.MethodPost, "/api/workers", gin.H{
		"first_name": "No",
		"last_name":  "Badge",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestGetWorkerRecomputesDocumentStatus(t *testing.T) {
	router, db := newWorkerRouter(t, "h_worker_docs")

	worker := models.Worker{EmployeeID: "KM-5003", FirstName: "Mia", LastName: "Thompson"}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("seeding worker: %v", err)
	}

	// Stored status is stale on purpose; the read must override it.
	expired := time.Now().AddDate(0, -1, 0)
	doc := models.Document{
		Reference:  "doc-stale",
		Name:       "Site Induction",
		Type:       models.DocumentTypeInduction,
		WorkerID:   &worker.ID,
		ExpiryDate: &expired,
		Status:     models.ExpiryStatusValid,
	}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("seeding document: %v", err)
	}

	w := performRequest(router, http.MethodGet, fmt.Sprintf("/api/workers/%d/documents", worker.ID), nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	docs := body["documents"].([]interface{})
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	got := docs[0].(map[string]interface{})
	if got["status"] != "expired" {
		t.Fatalf("status = %v, want expired", got["status"])
	}
}

func TestGetWorkersFilters(t *testing.T) {
	router, db := newWorkerRouter(t, "h_worker_filters")

	workers := []models.Worker{
		{EmployeeID: "KM-5004", FirstName: "Grace", LastName: "Okafor", Department: "Operations", Status: models.WorkerStatusActive},
		{EmployeeID: "KM-5005", FirstName: "Daniel", LastName: "Reyes", Department: "Operations", Status: models.WorkerStatusInactive},
		{EmployeeID: "KM-5006", FirstName: "Mia", LastName: "Thompson", Department: "Exploration", Status: models.WorkerStatusActive},
	}
	for i := range workers {
		if err := db.Create(&workers[i]).Error; err != nil {
			t.Fatalf("seeding workers: %v", err)
		}
	}

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 3},
		{"by status", "?status=active", 2},
		{"by department", "?department=Exploration", 1},
		{"by search", "?search=reyes", 1},
		{"status and department", "?status=active&department=Operations", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/api/workers"+tc.query, nil)
			requireStatus(t, w, http.StatusOK)

			body := decodeBody(t, w)
			if int(body["count"].(float64)) != tc.want {
				t.Fatalf("count = %v, want %d", body["count"], tc.want)
			}
		})
	}
}

func TestDeleteWorkerKeepsScans(t *testing.T) {
	router, db := newWorkerRouter(t, "h_worker_delete")

	worker := models.Worker{EmployeeID: "KM-5007", FirstName: "Lars", LastName: "Nilsen"}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("seeding worker: %v", err)
	}

	scan := models.ScanRecord{Reference: "del-1", WorkerID: &worker.ID, Outcome: models.ScanOutcomeSuccess, Timestamp: time.Now()}
	if err := db.Create(&scan).Error; err != nil {
		t.Fatalf("seeding scan: %v", err)
	}

	w := performRequest(router, http.MethodDelete, fmt.Sprintf("/api/workers/%d", worker.ID), nil)
	requireStatus(t, w, http.StatusOK)

	var workerCount int64
	if err := db.Unscoped().Model(&models.Worker{}).Count(&workerCount).Error; err != nil {
		t.Fatalf("counting workers: %v", err)
	}
	if workerCount != 0 {
		t.Fatalf("expected worker hard-deleted, %d rows remain", workerCount)
	}

	var stored models.ScanRecord
	if err := db.First(&stored, scan.ID).Error; err != nil {
		t.Fatalf("audit scan must survive worker deletion: %v", err)
	}
	if stored.WorkerID != nil {
		t.Fatal("expected scan detached from deleted worker")
	}
}
