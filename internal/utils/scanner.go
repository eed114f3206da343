package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kestrel/internal/models"
	"kestrel/internal/websocket"
)

type ScanService struct {
	db        *gorm.DB
	logger    *zap.Logger
	wsHandler *websocket.WebSocketHandler
	wsEnabled bool
}

func NewScanService(db *gorm.DB, logger *zap.Logger) *ScanService {
	return &ScanService{
		db:        db,
		logger:    logger.With(zap.String("service", "scanner")),
		wsEnabled: false,
	}
}

func (s *ScanService) SetWebSocketHandler(wsHandler *websocket.WebSocketHandler) {
	s.wsHandler = wsHandler
	s.wsEnabled = (wsHandler != nil)
}

type ScanRequest struct {
	WorkerID   uint
	Outcome    models.ScanOutcome
	Location   string
	RawPayload string
}

// RecordScan persists one audit record per attempt, whatever the outcome.
// A success outcome additionally requires the worker to exist and bumps
// its last_seen; error and not_found outcomes are recorded even when no
// worker can be resolved. Scans are never deduplicated here, so a retried
// request produces a second record; idempotency belongs to the caller.
func (s *ScanService) RecordScan(req ScanRequest) (*models.ScanRecord, *models.Worker, error) {
	if req.WorkerID == 0 || req.Outcome == "" {
		return nil, nil, fmt.Errorf("%w: worker id and outcome are required", ErrValidation)
	}

	now := time.Now()

	var worker *models.Worker
	if req.Outcome == models.ScanOutcomeSuccess {
		var found models.Worker
		if err := s.db.First(&found, req.WorkerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: worker %d", ErrNotFound, req.WorkerID)
			}
			return nil, nil, err
		}

		found.MarkSeen(now)
		if err := s.db.Model(&found).Update("last_seen", now).Error; err != nil {
			return nil, nil, err
		}
		worker = &found
	}

	record := models.ScanRecord{
		Reference: uuid.New().String(),
		Outcome:   req.Outcome,
		Location:  req.Location,
		Timestamp: now,
	}
	if worker != nil {
		record.WorkerID = &worker.ID
	}

	if req.RawPayload != "" {
		encrypted, err := EncryptScanPayload(req.RawPayload)
		if err != nil {
			return nil, nil, err
		}
		record.EncryptedPayload = encrypted
		record.RawPayload = req.RawPayload
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, nil, err
	}

	s.logger.Info("scan recorded",
		zap.String("reference", record.Reference),
		zap.String("outcome", string(record.Outcome)),
		zap.String("location", record.Location))

	if s.wsEnabled {
		s.wsHandler.NotifyScanEvent(record, worker)
	}

	return &record, worker, nil
}

// TodayStats are the per-outcome counts for the current calendar day,
// always from local midnight and never narrowed by list filters.
type TodayStats struct {
	Success  int64 `json:"success"`
	Error    int64 `json:"error"`
	NotFound int64 `json:"not_found"`
}

// ListScans returns the filtered scan history, newest first, plus the
// day's aggregate counts. A zero limit falls back to 50.
func (s *ScanService) ListScans(filter ScanFilter) ([]models.ScanRecord, TodayStats, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var records []models.ScanRecord
	query := filter.Apply(s.db.Model(&models.ScanRecord{}).Preload("Worker"))
	if err := query.Order("timestamp DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, TodayStats{}, err
	}

	for i := range records {
		if records[i].EncryptedPayload == "" {
			continue
		}
		payload, err := DecryptScanPayload(records[i].EncryptedPayload)
		if err != nil {
			s.logger.Warn("scan payload decrypt failed",
				zap.String("reference", records[i].Reference), zap.Error(err))
			continue
		}
		records[i].RawPayload = payload
	}

	stats, err := s.todayStats(time.Now())
	if err != nil {
		return nil, TodayStats{}, err
	}

	return records, stats, nil
}

func (s *ScanService) todayStats(now time.Time) (TodayStats, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats TodayStats
	counts := []struct {
		outcome models.ScanOutcome
		target  *int64
	}{
		{models.ScanOutcomeSuccess, &stats.Success},
		{models.ScanOutcomeError, &stats.Error},
		{models.ScanOutcomeNotFound, &stats.NotFound},
	}

	for _, c := range counts {
		if err := s.db.Model(&models.ScanRecord{}).
			Where("timestamp >= ? AND outcome = ?", midnight, c.outcome).
			Count(c.target).Error; err != nil {
			return TodayStats{}, err
		}
	}

	return stats, nil
}
