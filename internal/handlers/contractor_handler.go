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

type ContractorHandler struct {
	db *gorm.DB
}

func NewContractorHandler(db *gorm.DB) *ContractorHandler {
	return &ContractorHandler{db: db}
}

func (h *ContractorHandler) GetContractors(c *gin.Context) {
	filter := utils.ContractorFilter{
		Search:    c.Query("search"),
		Certified: c.Query("certified"),
	}

	var contractors []models.Contractor
	query := filter.Apply(h.db.Model(&models.Contractor{}))
	if err := query.Find(&contractors).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch contractors", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"contractors": contractors, "count": len(contractors)})
}

func (h *ContractorHandler) GetContractor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid contractor id")
		return
	}

	var contractor models.Contractor
	if err := h.db.First(&contractor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "contractor not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch contractor", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contractor":       contractor,
		"induction_status": utils.ResolveExpiryStatus(contractor.InductionExpiry, time.Now()),
	})
}

func (h *ContractorHandler) CreateContractor(c *gin.Context) {
	var input struct {
		Company         string     `json:"company" binding:"required"`
		ContactName     string     `json:"contact_name" binding:"required"`
		Email           string     `json:"email"`
		Phone           string     `json:"phone"`
		Certified       bool       `json:"certified"`
		InductionExpiry *time.Time `json:"induction_expiry"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "company and contact name are required", err.Error())
		return
	}

	contractor := models.Contractor{
		Company:         input.Company,
		ContactName:     input.ContactName,
		Email:           input.Email,
		Phone:           input.Phone,
		Certified:       input.Certified,
		InductionExpiry: input.InductionExpiry,
	}

	if err := h.db.Create(&contractor).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create contractor", err.Error())
		return
	}

	c.JSON(http.StatusCreated, contractor)
}

func (h *ContractorHandler) UpdateContractor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid contractor id")
		return
	}

	var contractor models.Contractor
	if err := h.db.First(&contractor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "contractor not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch contractor", err.Error())
		}
		return
	}

	var input struct {
		Company         string     `json:"company"`
		ContactName     string     `json:"contact_name"`
		Email           string     `json:"email"`
		Phone           string     `json:"phone"`
		Certified       *bool      `json:"certified"`
		InductionExpiry *time.Time `json:"induction_expiry"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid contractor payload", err.Error())
		return
	}

	if input.Company != "" {
		contractor.Company = input.Company
	}
	if input.ContactName != "" {
		contractor.ContactName = input.ContactName
	}
	if input.Email != "" {
		contractor.Email = input.Email
	}
	if input.Phone != "" {
		contractor.Phone = input.Phone
	}
	if input.Certified != nil {
		contractor.Certified = *input.Certified
	}
	if input.InductionExpiry != nil {
		contractor.InductionExpiry = input.InductionExpiry
	}

	if err := h.db.Save(&contractor).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update contractor", err.Error())
		return
	}

	c.JSON(http.StatusOK, contractor)
}

func (h *ContractorHandler) DeleteContractor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid contractor id")
		return
	}

	var contractor models.Contractor
	if err := h.db.First(&contractor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "contractor not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch contractor", err.Error())
		}
		return
	}

	if err := h.db.Unscoped().Delete(&models.Contractor{}, id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete contractor", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "contractor deleted"})
}
