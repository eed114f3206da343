package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kestrel/internal/integration"
	"kestrel/internal/models"
	"kestrel/internal/utils"
)

type WorkerHandler struct {
	db        *gorm.DB
	gallagher *integration.GallagherClient
}

func NewWorkerHandler(db *gorm.DB, gallagher *integration.GallagherClient) *WorkerHandler {
	return &WorkerHandler{db: db, gallagher: gallagher}
}

func (h *WorkerHandler) GetWorkers(c *gin.Context) {
	filter := utils.WorkerFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Skills:     utils.SplitMulti(c.Query("skills")),
	}

	var workers []models.Worker
	query := filter.Apply(h.db.Model(&models.Worker{}))
	if err := query.Find(&workers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch workers", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"workers": workers, "count": len(workers)})
}

func (h *WorkerHandler) GetWorker(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	query := h.db.Model(&models.Worker{})

	if c.Query("include_documents") == "true" {
		query = query.Preload("Documents")
	}
	if c.Query("include_skills") == "true" {
		query = query.Preload("Skills")
	}

	var worker models.Worker
	if err := query.First(&worker, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "worker not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch worker", err.Error())
		}
		return
	}

	now := time.Now()
	for i := range worker.Documents {
		worker.Documents[i].Status = utils.ResolveExpiryStatus(worker.Documents[i].ExpiryDate, now)
	}
	for i := range worker.Skills {
		worker.Skills[i].Status = utils.ResolveExpiryStatus(worker.Skills[i].ExpiryDate, now)
	}

	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	var input struct {
		EmployeeID string              `json:"employee_id" binding:"required"`
		FirstName  string              `json:"first_name" binding:"required"`
		LastName   string              `json:"last_name" binding:"required"`
		Role       string              `json:"role"`
		Department string              `json:"department"`
		Status     models.WorkerStatus `json:"status"`
		Email      string              `json:"email"`
		Phone      string              `json:"phone"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "missing required worker fields", err.Error())
		return
	}

	var count int64
	if err := h.db.Model(&models.Worker{}).Where("employee_id = ?", input.EmployeeID).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to check employee id", err.Error())
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "employee id already registered")
		return
	}

	worker := models.Worker{
		EmployeeID: input.EmployeeID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       input.Role,
		Department: input.Department,
		Status:     input.Status,
		Email:      input.Email,
		Phone:      input.Phone,
	}
	if worker.Status == "" {
		worker.Status = models.WorkerStatusPending
	}

	if err := h.db.Create(&worker).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create worker", err.Error())
		return
	}

	h.syncToGallagher(worker)

	c.JSON(http.StatusCreated, worker)
}

func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	var worker models.Worker
	if err := h.db.First(&worker, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "worker not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch worker", err.Error())
		}
		return
	}

	var input struct {
		EmployeeID string              `json:"employee_id"`
		FirstName  string              `json:"first_name"`
		LastName   string              `json:"last_name"`
		Role       string              `json:"role"`
		Department string              `json:"department"`
		Status     models.WorkerStatus `json:"status"`
		Email      string              `json:"email"`
		Phone      string              `json:"phone"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker payload", err.Error())
		return
	}

	if input.EmployeeID != "" && input.EmployeeID != worker.EmployeeID {
		var existing models.Worker
		if result := h.db.Where("employee_id = ? AND id != ?", input.EmployeeID, worker.ID).First(&existing); result.Error == nil {
			respondError(c, http.StatusConflict, "employee id already registered")
			return
		}
		worker.EmployeeID = input.EmployeeID
	}
	if input.FirstName != "" {
		worker.FirstName = input.FirstName
	}
	if input.LastName != "" {
		worker.LastName = input.LastName
	}
	if input.Role != "" {
		worker.Role = input.Role
	}
	if input.Department != "" {
		worker.Department = input.Department
	}
	if input.Status != "" {
		worker.Status = input.Status
	}
	if input.Email != "" {
		worker.Email = input.Email
	}
	if input.Phone != "" {
		worker.Phone = input.Phone
	}

	if err := h.db.Save(&worker).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update worker", err.Error())
		return
	}

	h.syncToGallagher(worker)

	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) DeleteWorker(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	var worker models.Worker
	if err := h.db.First(&worker, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "worker not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch worker", err.Error())
		}
		return
	}

	// Owned rows go with the worker; audit scans survive with a null
	// worker reference so the trail stays complete.
	if err := h.db.Unscoped().Where("worker_id = ?", id).Delete(&models.Document{}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete worker documents", err.Error())
		return
	}
	if err := h.db.Unscoped().Where("worker_id = ?", id).Delete(&models.Skill{}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete worker skills", err.Error())
		return
	}
	if err := h.db.Model(&models.ScanRecord{}).Where("worker_id = ?", id).Update("worker_id", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to detach worker scans", err.Error())
		return
	}

	if err := h.db.Unscoped().Delete(&models.Worker{}, id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete worker", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "worker deleted"})
}

func (h *WorkerHandler) GetWorkerDocuments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	var documents []models.Document
	if err := h.db.Where("worker_id = ?", id).Find(&documents).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch worker documents", err.Error())
		return
	}

	now := time.Now()
	for i := range documents {
		documents[i].Status = utils.ResolveExpiryStatus(documents[i].ExpiryDate, now)
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents, "count": len(documents)})
}

func (h *WorkerHandler) GetWorkerSkills(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	var skills []models.Skill
	if err := h.db.Where("worker_id = ?", id).Find(&skills).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch worker skills", err.Error())
		return
	}

	now := time.Now()
	for i := range skills {
		skills[i].Status = utils.ResolveExpiryStatus(skills[i].ExpiryDate, now)
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills, "count": len(skills)})
}

func (h *WorkerHandler) GetWorkerScans(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	var scans []models.ScanRecord
	if err := h.db.Where("worker_id = ?", id).Order("timestamp DESC").Limit(50).Find(&scans).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch worker scans", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans, "count": len(scans)})
}

// syncToGallagher pushes the cardholder off the request path. Sync
// failures only log; the next mutation retries.
func (h *WorkerHandler) syncToGallagher(worker models.Worker) {
	if h.gallagher == nil || !h.gallagher.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = h.gallagher.SyncWorker(ctx, worker)
	}()
}
