package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kestrel/internal/models"
	"kestrel/internal/utils"
)

type EquipmentHandler struct {
	db           *gorm.DB
	statsService *utils.StatisticsService
}

func NewEquipmentHandler(db *gorm.DB) *EquipmentHandler {
	return &EquipmentHandler{
		db:           db,
		statsService: utils.NewStatisticsService(db),
	}
}

func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	var equipment []models.Equipment

	query := h.db.Model(&models.Equipment{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if available, ok := utils.BoolParam(c.Query("available")); ok && available {
		query = query.Where("status = ?", models.EquipmentStatusAvailable)
	}
	query = utils.ApplySearch(query, c.Query("search"), []string{"name", "asset_code", "site"})

	if err := query.Find(&equipment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch equipment", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment": equipment, "count": len(equipment)})
}

func (h *EquipmentHandler) GetEquipmentItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var item models.Equipment
	if err := h.db.Preload("Sessions").First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "equipment not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch equipment", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var input struct {
		AssetCode string                 `json:"asset_code" binding:"required"`
		Name      string                 `json:"name" binding:"required"`
		Category  string                 `json:"category"`
		Status    models.EquipmentStatus `json:"status"`
		Site      string                 `json:"site"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "asset code and name are required", err.Error())
		return
	}

	var count int64
	if err := h.db.Model(&models.Equipment{}).Where("asset_code = ?", input.AssetCode).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check asset code", err.Error())
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "asset code already registered")
		return
	}

	item := models.Equipment{
		AssetCode: input.AssetCode,
		Name:      input.Name,
		Category:  input.Category,
		Status:    input.Status,
		Site:      input.Site,
	}
	if item.Status == "" {
		item.Status = models.EquipmentStatusAvailable
	}

	if err := h.db.Create(&item).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create equipment", err.Error())
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var item models.Equipment
	if err := h.db.First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "equipment not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch equipment", err.Error())
		}
		return
	}

	var input struct {
		Name     string                 `json:"name"`
		Category string                 `json:"category"`
		Status   models.EquipmentStatus `json:"status"`
		Site     string                 `json:"site"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid equipment payload", err.Error())
		return
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.Status != "" {
		item.Status = input.Status
	}
	if input.Site != "" {
		item.Site = input.Site
	}

	if err := h.db.Save(&item).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update equipment", err.Error())
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var item models.Equipment
	if err := h.db.First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "equipment not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch equipment", err.Error())
		}
		return
	}

	var activeCount int64
	if err := h.db.Model(&models.UsageSession{}).
		Where("equipment_id = ? AND end_time IS NULL", id).
		Count(&activeCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check active sessions", err.Error())
		return
	}
	if activeCount > 0 {
		respondError(c, http.StatusConflict, "equipment has an active session")
		return
	}

	if err := h.db.Unscoped().Where("equipment_id = ?", id).Delete(&models.UsageSession{}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete equipment sessions", err.Error())
		return
	}

	if err := h.db.Unscoped().Delete(&models.Equipment{}, id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete equipment", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "equipment deleted"})
}

// StartSession opens a usage session and flips the equipment to in_use.
// The operator is a worker or a contractor, never both.
func (h *EquipmentHandler) StartSession(c *gin.Context) {
	var input struct {
		EquipmentID  uint    `json:"equipment_id" binding:"required"`
		WorkerID     *uint   `json:"worker_id"`
		ContractorID *uint   `json:"contractor_id"`
		StartHours   float64 `json:"start_hours"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "equipment id is required", err.Error())
		return
	}

	session := models.UsageSession{
		EquipmentID:  input.EquipmentID,
		WorkerID:     input.WorkerID,
		ContractorID: input.ContractorID,
		StartTime:    time.Now(),
		StartHours:   input.StartHours,
	}
	if err := session.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if input.WorkerID != nil {
		session.OperatorType = models.OperatorTypeWorker
		var worker models.Worker
		if err := h.db.First(&worker, *input.WorkerID).Error; err != nil {
			respondError(c, http.StatusBadRequest, "invalid worker id")
			return
		}
	} else {
		session.OperatorType = models.OperatorTypeContractor
		var contractor models.Contractor
		if err := h.db.First(&contractor, *input.ContractorID).Error; err != nil {
			respondError(c, http.StatusBadRequest, "invalid contractor id")
			return
		}
	}

	var item models.Equipment
	if err := h.db.First(&item, input.EquipmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "equipment not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch equipment", err.Error())
		}
		return
	}

	var activeCount int64
	if err := h.db.Model(&models.UsageSession{}).
		Where("equipment_id = ? AND end_time IS NULL", input.EquipmentID).
		Count(&activeCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check active sessions", err.Error())
		return
	}
	if activeCount > 0 {
		respondError(c, http.StatusConflict, "equipment already has an active session")
		return
	}

	if err := h.db.Create(&session).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to start session", err.Error())
		return
	}

	if err := h.db.Model(&item).Update("status", models.EquipmentStatusInUse).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update equipment status", err.Error())
		return
	}

	c.JSON(http.StatusCreated, session)
}

// EndSession closes an active session, records the meter readings and
// releases the equipment.
func (h *EquipmentHandler) EndSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid session id")
		return
	}

	var session models.UsageSession
	if err := h.db.First(&session, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "session not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch session", err.Error())
		}
		return
	}

	if !session.IsActive() {
		respondError(c, http.StatusConflict, "session already ended")
		return
	}

	var input struct {
		EndHours float64 `json:"end_hours"`
		FuelUsed float64 `json:"fuel_used"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid session payload", err.Error())
		return
	}

	now := time.Now()
	session.EndTime = &now
	session.EndHours = input.EndHours
	session.FuelUsed = input.FuelUsed

	if err := h.db.Save(&session).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to end session", err.Error())
		return
	}

	if err := h.db.Model(&models.Equipment{}).
		Where("id = ?", session.EquipmentID).
		Update("status", models.EquipmentStatusAvailable).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update equipment status", err.Error())
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *EquipmentHandler) GetSessions(c *gin.Context) {
	filter := utils.SessionFilter{
		EquipmentID: c.Query("equipment_id"),
		Active:      c.Query("active"),
	}

	var sessions []models.UsageSession
	query := filter.Apply(h.db.Model(&models.UsageSession{}).Preload("Equipment").Preload("Worker").Preload("Contractor"))
	if err := query.Order("start_time DESC").Find(&sessions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch sessions", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func (h *EquipmentHandler) GetUtilization(c *gin.Context) {
	start, end := statsRange(c, -1, 0)

	stats, err := h.statsService.GetEquipmentUtilization(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch utilization", err.Error())
		return
	}

	c.JSON(http.StatusOK, stats)
}
