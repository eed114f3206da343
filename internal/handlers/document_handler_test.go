package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kestrel/internal/models"
)

func newDocumentRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := newTestDB(t, name)
	handler := NewDocumentHandler(db)

	router := gin.New()
	router.GET("/api/documents", handler.GetDocuments)
	router.GET("/api/documents/expiring", handler.GetExpiringDocuments)
	router.POST("/api/documents", handler.CreateDocument)
	return router, db
}

func seedDocuments(t *testing.T, db *gorm.DB) {
	t.Helper()

	now := time.Now()
	ptr := func(t time.Time) *time.Time { return &t }

	docs := []models.Document{
		{Reference: "d-1", Name: "High Risk Work Licence", Type: models.DocumentTypeLicense, ExpiryDate: ptr(now.AddDate(1, 0, 0)), Status: models.ExpiryStatusValid},
		{Reference: "d-2", Name: "Site Induction", Type: models.DocumentTypeInduction, ExpiryDate: ptr(now.AddDate(0, 0, 10)), Status: models.ExpiryStatusValid},
		{Reference: "d-3", Name: "Coal Board Medical", Type: models.DocumentTypeMedical, ExpiryDate: ptr(now.AddDate(0, -1, 0)), Status: models.ExpiryStatusValid},
		{Reference: "d-4", Name: "First Aid Certificate", Type: models.DocumentTypeCertification},
	}
	for i := range docs {
		if err := db.Create(&docs[i]).Error; err != nil {
			t.Fatalf("seeding documents: %v", err)
		}
	}
}

func TestCreateDocumentRequiresType(t *testing.T) {
	router, _ := newDocumentRouter(t, "h_doc_type")

	w := performRequest(router, http.MethodPost, "/api/documents", gin.H{
		"name": "Untyped Credential",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestCreateDocumentUnknownWorker(t *testing.T) {
	router, _ := newDocumentRouter(t, "h_doc_worker")

	w := performRequest(router, http.MethodPost, "/api/documents", gin.H{
		"name":      "Orphan Credential",
		"type":      "license",
		"worker_id": 999,
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestGetDocumentsStatusFilterRecomputes(t *testing.T) {
	router, db := newDocumentRouter(t, "h_doc_status")
	seedDocuments(t, db)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 4},
		{"valid includes nil expiry", "?status=valid", 2},
		{"expiring", "?status=expiring", 1},
		{"expired despite stale stored status", "?status=expired", 1},
		{"by type", "?type=induction", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/api/documents"+tc.query, nil)
			requireStatus(t, w, http.StatusOK)

			body := decodeBody(t, w)
			if int(body["count"].(float64)) != tc.want {
				t.Fatalf("count = %v, want %d", body["count"], tc.want)
			}
		})
	}
}

func TestGetExpiringDocuments(t *testing.T) {
	router, db := newDocumentRouter(t, "h_doc_expiring")
	seedDocuments(t, db)

	w := performRequest(router, http.MethodGet, "/api/documents/expiring", nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if int(body["count"].(float64)) != 1 {
		t.Fatalf("count = %v, want 1", body["count"])
	}

	docs := body["documents"].([]interface{})
	got := docs[0].(map[string]interface{})
	if got["reference"] != "d-2" {
		t.Fatalf("reference = %v, want d-2", got["reference"])
	}
	if got["status"] != "expiring" {
		t.Fatalf("status = %v, want expiring", got["status"])
	}
}

func TestGetExpiringDocumentsCustomWindow(t *testing.T) {
	router, db := newDocumentRouter(t, "h_doc_window")
	seedDocuments(t, db)

	w := performRequest(router, http.MethodGet, "/api/documents/expiring?days=400", nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	if int(body["count"].(float64)) != 2 {
		t.Fatalf("count = %v, want 2", body["count"])
	}
}
