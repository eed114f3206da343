package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kestrel/internal/models"
	"kestrel/internal/utils"
	"kestrel/internal/websocket"
)

type DocumentHandler struct {
	db        *gorm.DB
	wsHandler *websocket.WebSocketHandler
	wsEnabled bool
}

func NewDocumentHandler(db *gorm.DB) *DocumentHandler {
	return &DocumentHandler{
		db:        db,
		wsEnabled: false,
	}
}

func (h *DocumentHandler) SetWebSocketHandler(wsHandler *websocket.WebSocketHandler) {
	h.wsHandler = wsHandler
	h.wsEnabled = (wsHandler != nil)
}

// GetDocuments lists credentials with their status recomputed from the
// expiry date. The stored status column is never trusted on reads; the
// status query param therefore filters on the recomputed value.
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	filter := utils.DocumentFilter{
		Type:     c.Query("type"),
		WorkerID: c.Query("worker_id"),
		Search:   c.Query("search"),
	}

	var documents []models.Document
	query := filter.Apply(h.db.Model(&models.Document{}).Preload("Worker"))
	if err := query.Order("created_at DESC").Find(&documents).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch documents", err.Error())
		return
	}

	now := time.Now()
	statusFilter := c.Query("status")
	filtered := make([]models.Document, 0, len(documents))
	for i := range documents {
		documents[i].Status = utils.ResolveExpiryStatus(documents[i].ExpiryDate, now)
		if statusFilter != "" && string(documents[i].Status) != statusFilter {
			continue
		}
		filtered = append(filtered, documents[i])
	}

	c.JSON(http.StatusOK, gin.H{"documents": filtered, "count": len(filtered)})
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid document id")
		return
	}

	var document models.Document
	if err := h.db.Preload("Worker").First(&document, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "document not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch document", err.Error())
		}
		return
	}

	document.Status = utils.ResolveExpiryStatus(document.ExpiryDate, time.Now())

	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var input struct {
		Name       string              `json:"name" binding:"required"`
		Type       models.DocumentType `json:"type" binding:"required"`
		WorkerID   *uint               `json:"worker_id"`
		ExpiryDate *time.Time          `json:"expiry_date"`
		FileName   string              `json:"file_name"`
		FileSize   int64               `json:"file_size"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "document name and type are required", err.Error())
		return
	}

	if input.WorkerID != nil {
		var worker models.Worker
		if err := h.db.First(&worker, *input.WorkerID).Error; err != nil {
			respondError(c, http.StatusBadRequest, "invalid worker id")
			return
		}
	}

	document := models.Document{
		Reference:  uuid.New().String(),
		Name:       input.Name,
		Type:       input.Type,
		WorkerID:   input.WorkerID,
		ExpiryDate: input.ExpiryDate,
		// Stored as a write-time default only; reads always recompute.
		Status:   utils.ResolveExpiryStatus(input.ExpiryDate, time.Now()),
		FileName: input.FileName,
		FileSize: input.FileSize,
	}

	if err := h.db.Create(&document).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create document", err.Error())
		return
	}

	c.JSON(http.StatusCreated, document)
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid document id")
		return
	}

	var document models.Document
	if err := h.db.First(&document, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "document not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch document", err.Error())
		}
		return
	}

	var input struct {
		Name       string              `json:"name"`
		Type       models.DocumentType `json:"type"`
		WorkerID   *uint               `json:"worker_id"`
		ExpiryDate *time.Time          `json:"expiry_date"`
		FileName   string              `json:"file_name"`
		FileSize   *int64              `json:"file_size"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid document payload", err.Error())
		return
	}

	if input.Name != "" {
		document.Name = input.Name
	}
	if input.Type != "" {
		document.Type = input.Type
	}
	if input.WorkerID != nil {
		var worker models.Worker
		if err := h.db.First(&worker, *input.WorkerID).Error; err != nil {
			respondError(c, http.StatusBadRequest, "invalid worker id")
			return
		}
		document.WorkerID = input.WorkerID
	}
	if input.ExpiryDate != nil {
		document.ExpiryDate = input.ExpiryDate
		document.Status = utils.ResolveExpiryStatus(input.ExpiryDate, time.Now())
	}
	if input.FileName != "" {
		document.FileName = input.FileName
	}
	if input.FileSize != nil {
		document.FileSize = *input.FileSize
	}

	if err := h.db.Save(&document).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update document", err.Error())
		return
	}

	document.Status = utils.ResolveExpiryStatus(document.ExpiryDate, time.Now())

	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid document id")
		return
	}

	var document models.Document
	if err := h.db.First(&document, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "document not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch document", err.Error())
		}
		return
	}

	if err := h.db.Unscoped().Delete(&models.Document{}, id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete document", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

// GetExpiringDocuments lists credentials lapsing inside the window and
// pushes expiry notices onto the websocket feed when enabled.
func (h *DocumentHandler) GetExpiringDocuments(c *gin.Context) {
	days := utils.ExpiringWindowDays
	if daysStr := c.Query("days"); daysStr != "" {
		if daysNum, err := strconv.Atoi(daysStr); err == nil && daysNum > 0 {
			days = daysNum
		}
	}

	now := time.Now()
	expiryLimit := now.AddDate(0, 0, days)

	var expiring []models.Document
	if err := h.db.
		Preload("Worker").
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND expiry_date >= ?", expiryLimit, now).
		Order("expiry_date ASC").
		Find(&expiring).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch expiring documents", err.Error())
		return
	}

	for i := range expiring {
		expiring[i].Status = utils.ResolveExpiryStatus(expiring[i].ExpiryDate, now)
	}

	if h.wsEnabled && len(expiring) > 0 {
		for _, doc := range expiring {
			h.wsHandler.NotifyDocumentExpiry(doc, utils.DaysUntilExpiry(*doc.ExpiryDate, now))
		}
	}

	c.JSON(http.StatusOK, gin.H{"documents": expiring, "count": len(expiring)})
}
