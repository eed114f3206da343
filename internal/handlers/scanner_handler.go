package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kestrel/internal/models"
	"kestrel/internal/utils"
)

type ScannerHandler struct {
	db           *gorm.DB
	scanService  *utils.ScanService
	statsService *utils.StatisticsService
	logger       *zap.Logger
}

func NewScannerHandler(db *gorm.DB, scanService *utils.ScanService, logger *zap.Logger) *ScannerHandler {
	return &ScannerHandler{
		db:           db,
		scanService:  scanService,
		statsService: utils.NewStatisticsService(db),
		logger:       logger.With(zap.String("handler", "scanner")),
	}
}

// RecordScan accepts a scan attempt from a hand-held device or kiosk.
// Every attempt is audited, including failures; submissions are not
// deduplicated, so device retries show up as separate records.
func (h *ScannerHandler) RecordScan(c *gin.Context) {
	var input struct {
		WorkerID   uint               `json:"worker_id"`
		Status     models.ScanOutcome `json:"status"`
		Location   string             `json:"location"`
		RawPayload string             `json:"raw_payload"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, worker, err := h.scanService.RecordScan(utils.ScanRequest{
		WorkerID:   input.WorkerID,
		Outcome:    input.Status,
		Location:   input.Location,
		RawPayload: input.RawPayload,
	})
	if err != nil {
		h.logger.Warn("scan rejected", zap.Uint("worker_id", input.WorkerID), zap.Error(err))
		respondServiceError(c, err, "failed to record scan")
		return
	}

	response := gin.H{"scan": record}
	if worker != nil {
		response["worker"] = gin.H{
			"id":          worker.ID,
			"employee_id": worker.EmployeeID,
			"name":        worker.FullName(),
			"last_seen":   worker.LastSeen,
		}
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ScannerHandler) GetScans(c *gin.Context) {
	filter := utils.ScanFilter{
		WorkerID: c.Query("worker_id"),
		Outcome:  c.Query("status"),
		Location: c.Query("location"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limitNum, err := strconv.Atoi(limitStr); err == nil && limitNum > 0 {
			filter.Limit = limitNum
		}
	}

	records, todayStats, err := h.scanService.ListScans(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch scan history", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scanHistory": records,
		"count":       len(records),
		"todayStats":  todayStats,
	})
}

func (h *ScannerHandler) GetScan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid scan id")
		return
	}

	var record models.ScanRecord
	if err := h.db.Preload("Worker").First(&record, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "scan record not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to fetch scan record", err.Error())
		}
		return
	}

	if record.EncryptedPayload != "" {
		if payload, err := utils.DecryptScanPayload(record.EncryptedPayload); err == nil {
			record.RawPayload = payload
		}
	}

	c.JSON(http.StatusOK, record)
}

func (h *ScannerHandler) GetLocationStats(c *gin.Context) {
	start, end := statsRange(c, -1, 0)

	stats, err := h.statsService.GetLocationScanStats(start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch location stats", err.Error())
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ScannerHandler) GetWorkerStats(c *gin.Context) {
	start, end := statsRange(c, -1, 0)

	var workerID uint
	if workerIDStr := c.Query("worker_id"); workerIDStr != "" {
		if id, err := strconv.Atoi(workerIDStr); err == nil {
			workerID = uint(id)
		}
	}

	stats, err := h.statsService.GetWorkerScanStats(workerID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch worker stats", err.Error())
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ScannerHandler) GetScanTimeSeries(c *gin.Context) {
	start, end := statsRange(c, 0, -7)
	interval := c.DefaultQuery("interval", "day")

	data, err := h.statsService.GetScanTimeSeriesData(interval, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch time series", err.Error())
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *ScannerHandler) GetMostActiveWorkers(c *gin.Context) {
	start, end := statsRange(c, -1, 0)

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	workers, err := h.statsService.GetMostActiveWorkers(limit, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch most active workers", err.Error())
		return
	}

	c.JSON(http.StatusOK, workers)
}

// statsRange resolves the start_date/end_date query params, defaulting to
// a window ending now: months/days say how far back the start sits.
func statsRange(c *gin.Context, months, days int) (time.Time, time.Time) {
	end := time.Now()
	start := end.AddDate(0, months, days)

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if t, err := time.Parse("2006-01-02", startDateStr); err == nil {
			start = t
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if t, err := time.Parse("2006-01-02", endDateStr); err == nil {
			end = t.Add(24*time.Hour - time.Second)
		}
	}

	return start, end
}
