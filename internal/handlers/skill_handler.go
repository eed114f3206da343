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

type SkillHandler struct {
	db *gorm.DB
}

func NewSkillHandler(db *gorm.DB) *SkillHandler {
	return &SkillHandler{db: db}
}

func (h *SkillHandler) GetSkills(c *gin.Context) {
	var skills []models.Skill

	query := h.db.Model(&models.Skill{}).Preload("Worker")

	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	query = utils.ApplySearch(query, c.Query("search"), []string{"name"})

	if err := query.Find(&skills).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch skills", err.Error())
		return
	}

	now := time.Now()
	for i := range skills {
		skills[i].Status = utils.ResolveExpiryStatus(skills[i].ExpiryDate, now)
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills, "count": len(skills)})
}

func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var input struct {
		WorkerID    uint              `json:"worker_id" binding:"required"`
		Name        string            `json:"name" binding:"required"`
		Level       models.SkillLevel `json:"level"`
		CertifiedAt *time.Time        `json:"certified_at"`
		ExpiryDate  *time.Time        `json:"expiry_date"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "worker id and skill name are required", err.Error())
		return
	}

	var worker models.Worker
	if err := h.db.First(&worker, input.WorkerID).Error; err != nil {
		respondError(c, http.StatusBadRequest, "invalid worker id")
		return
	}

	skill := models.Skill{
		WorkerID:   input.WorkerID,
		Name:       input.Name,
		Level:      input.Level,
		ExpiryDate: input.ExpiryDate,
		Status:     utils.ResolveExpiryStatus(input.ExpiryDate, time.Now()),
	}
	if skill.Level == "" {
		skill.Level = models.SkillLevelBasic
	}
	if input.CertifiedAt != nil {
		skill.CertifiedAt = *input.CertifiedAt
	} else {
		skill.CertifiedAt = time.Now()
	}

	if err := h.db.Create(&skill).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create skill", err.Error())
		return
	}

	c.JSON(http.StatusCreated, skill)
}

func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid skill id")
		return
	}

	var skill models.Skill
	if err := h.db.First(&skill, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "skill not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch skill", err.Error())
		}
		return
	}

	if err := h.db.Unscoped().Delete(&models.Skill{}, id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete skill", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "skill deleted"})
}
