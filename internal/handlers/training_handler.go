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

type TrainingHandler struct {
	db *gorm.DB
}

func NewTrainingHandler(db *gorm.DB) *TrainingHandler {
	return &TrainingHandler{db: db}
}

func (h *TrainingHandler) GetPrograms(c *gin.Context) {
	var programs []models.TrainingProgram

	query := h.db.Model(&models.TrainingProgram{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if active, ok := utils.BoolParam(c.Query("active")); ok && active {
		query = query.Where("active = ?", true)
	}
	query = utils.ApplySearch(query, c.Query("search"), []string{"name", "category"})

	if err := query.Find(&programs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch training programs", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"programs": programs, "count": len(programs)})
}

func (h *TrainingHandler) GetProgram(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid program id")
		return
	}

	var program models.TrainingProgram
	if err := h.db.Preload("Records").First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "training program not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch training program", err.Error())
		}
		return
	}

	now := time.Now()
	for i := range program.Records {
		program.Records[i].Status = utils.ResolveExpiryStatus(program.Records[i].ExpiryDate, now)
	}

	c.JSON(http.StatusOK, program)
}

func (h *TrainingHandler) CreateProgram(c *gin.Context) {
	var input struct {
		Name          string                  `json:"name" binding:"required"`
		Category      string                  `json:"category"`
		Priority      models.TrainingPriority `json:"priority"`
		DurationHours int                     `json:"duration_hours"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "program name is required", err.Error())
		return
	}

	program := models.TrainingProgram{
		Name:          input.Name,
		Category:      input.Category,
		Priority:      input.Priority,
		DurationHours: input.DurationHours,
		Active:        true,
	}
	if program.Priority == "" {
		program.Priority = models.TrainingPriorityMedium
	}

	if err := h.db.Create(&program).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create training program", err.Error())
		return
	}

	c.JSON(http.StatusCreated, program)
}

func (h *TrainingHandler) UpdateProgram(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid program id")
		return
	}

	var program models.TrainingProgram
	if err := h.db.First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "training program not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch training program", err.Error())
		}
		return
	}

	var input struct {
		Name          string                  `json:"name"`
		Category      string                  `json:"category"`
		Priority      models.TrainingPriority `json:"priority"`
		DurationHours *int                    `json:"duration_hours"`
		Active        *bool                   `json:"active"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid program payload", err.Error())
		return
	}

	if input.Name != "" {
		program.Name = input.Name
	}
	if input.Category != "" {
		program.Category = input.Category
	}
	if input.Priority != "" {
		program.Priority = input.Priority
	}
	if input.DurationHours != nil {
		program.DurationHours = *input.DurationHours
	}
	if input.Active != nil {
		program.Active = *input.Active
	}

	if err := h.db.Save(&program).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update training program", err.Error())
		return
	}

	c.JSON(http.StatusOK, program)
}

func (h *TrainingHandler) GetRecords(c *gin.Context) {
	var records []models.TrainingRecord

	query := h.db.Model(&models.TrainingRecord{}).Preload("Worker").Preload("Program")

	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if programID := c.Query("program_id"); programID != "" {
		query = query.Where("program_id = ?", programID)
	}

	if err := query.Order("completed_at DESC").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch training records", err.Error())
		return
	}

	now := time.Now()
	statusFilter := c.Query("status")
	filtered := make([]models.TrainingRecord, 0, len(records))
	for i := range records {
		records[i].Status = utils.ResolveExpiryStatus(records[i].ExpiryDate, now)
		if statusFilter != "" && string(records[i].Status) != statusFilter {
			continue
		}
		filtered = append(filtered, records[i])
	}

	c.JSON(http.StatusOK, gin.H{"records": filtered, "count": len(filtered)})
}

func (h *TrainingHandler) CreateRecord(c *gin.Context) {
	var input struct {
		WorkerID    uint       `json:"worker_id" binding:"required"`
		ProgramID   uint       `json:"program_id" binding:"required"`
		CompletedAt *time.Time `json:"completed_at"`
		ExpiryDate  *time.Time `json:"expiry_date"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "worker id and program id are required", err.Error())
		return
	}

	var worker models.Worker
	if err := h.db.First(&worker, input.WorkerID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}
	var program models.TrainingProgram
	if err := h.db.First(&program, input.ProgramID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "invalid program id")
		return
	}

	record := models.TrainingRecord{
		WorkerID:   input.WorkerID,
		ProgramID:  input.ProgramID,
		ExpiryDate: input.ExpiryDate,
		Status:     utils.ResolveExpiryStatus(input.ExpiryDate, time.Now()),
	}
	if input.CompletedAt != nil {
		record.CompletedAt = *input.CompletedAt
	} else {
		record.CompletedAt = time.Now()
	}

	if err := h.db.Create(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create training record", err.Error())
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *TrainingHandler) DeleteRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid record id")
		return
	}

	var record models.TrainingRecord
	if err := h.db.First(&record, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "training record not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch training record", err.Error())
		}
		return
	}

	if err := h.db.Unscoped().Delete(&models.TrainingRecord{}, id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete training record", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "training record deleted"})
}
