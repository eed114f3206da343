package utils

import (
	"time"

	"gorm.io/gorm"
)

type StatisticsService struct {
	db *gorm.DB
}

// NewStatisticsService creates a new instance of StatisticsService
func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{
		db: db,
	}
}

type LocationScanStats struct {
	Location    string  `json:"location"`
	TotalPassed int     `json:"total_passed"`
	TotalFailed int     `json:"total_failed"`
	SuccessRate float64 `json:"success_rate"` // Percentage of successful scans
}

type WorkerScanStats struct {
	WorkerID   uint       `json:"worker_id"`
	FullName   string     `json:"full_name"`
	TotalScans int        `json:"total_scans"`
	LastScan   *time.Time `json:"last_scan"`
}

type TimeSeriesData struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

type EquipmentUtilization struct {
	EquipmentID   uint    `json:"equipment_id"`
	AssetCode     string  `json:"asset_code"`
	Name          string  `json:"name"`
	TotalSessions int     `json:"total_sessions"`
	TotalHours    float64 `json:"total_hours"`
	TotalFuel     float64 `json:"total_fuel"`
}

// GetLocationScanStats gets check-in statistics per scan location
func (ss *StatisticsService) GetLocationScanStats(start, end time.Time) ([]LocationScanStats, error) {
	var stats []LocationScanStats

	query := ss.db.Table("scan_records").
		Select("scan_records.location, " +
			"COUNT(CASE WHEN scan_records.outcome = 'success' THEN 1 END) as total_passed, " +
			"COUNT(CASE WHEN scan_records.outcome != 'success' THEN 1 END) as total_failed, " +
			"CAST(COUNT(CASE WHEN scan_records.outcome = 'success' THEN 1 END) AS FLOAT) / COUNT(*) * 100 as success_rate").
		Where("scan_records.timestamp BETWEEN ? AND ? AND scan_records.location != ''", start, end).
		Group("scan_records.location")

	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetWorkerScanStats gets scan statistics for all workers or a specific worker
func (ss *StatisticsService) GetWorkerScanStats(workerID uint, start, end time.Time) ([]WorkerScanStats, error) {
	var stats []WorkerScanStats

	query := ss.db.Table("scan_records").
		Select("scan_records.worker_id, "+
			"(workers.first_name || ' ' || workers.last_name) as full_name, "+
			"COUNT(*) as total_scans, "+
			"MAX(scan_records.timestamp) as last_scan").
		Joins("LEFT JOIN workers ON scan_records.worker_id = workers.id").
		Where("scan_records.timestamp BETWEEN ? AND ? AND scan_records.outcome = 'success'", start, end).
		Group("scan_records.worker_id, workers.first_name, workers.last_name")

	if workerID > 0 {
		query = query.Where("scan_records.worker_id = ?", workerID)
	}

	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetScanTimeSeriesData gets time series data for successful scans
func (ss *StatisticsService) GetScanTimeSeriesData(interval string, start, end time.Time) ([]TimeSeriesData, error) {
	var data []TimeSeriesData

	var sqlFormat, parseLayout string
	switch interval {
	case "day":
		sqlFormat = "%Y-%m-%d 00:00:00"
		parseLayout = "2006-01-02 15:04:05"
	default: // hour
		sqlFormat = "%Y-%m-%d %H:00:00"
		parseLayout = "2006-01-02 15:04:05"
	}

	query := ss.db.Table("scan_records").
		Select("strftime(?, scan_records.timestamp) as timestamp_str, COUNT(*) as count", sqlFormat).
		Where("scan_records.timestamp BETWEEN ? AND ? AND scan_records.outcome = 'success'", start, end).
		Group("timestamp_str").
		Order("timestamp_str")

	type rawData struct {
		TimestampStr string `gorm:"column:timestamp_str"`
		Count        int    `gorm:"column:count"`
	}

	var rawResults []rawData
	if err := query.Scan(&rawResults).Error; err != nil {
		return nil, err
	}

	for _, r := range rawResults {
		t, err := time.Parse(parseLayout, r.TimestampStr)
		if err != nil {
			continue
		}

		data = append(data, TimeSeriesData{
			Timestamp: t,
			Count:     r.Count,
		})
	}

	return data, nil
}

// GetMostActiveWorkers gets the workers with the most successful scans
func (ss *StatisticsService) GetMostActiveWorkers(limit int, start, end time.Time) ([]WorkerScanStats, error) {
	var stats []WorkerScanStats

	if err := ss.db.Table("scan_records").
		Select("scan_records.worker_id, "+
			"(workers.first_name || ' ' || workers.last_name) as full_name, "+
			"COUNT(*) as total_scans, "+
			"MAX(scan_records.timestamp) as last_scan").
		Joins("LEFT JOIN workers ON scan_records.worker_id = workers.id").
		Where("scan_records.timestamp BETWEEN ? AND ? AND scan_records.outcome = 'success'", start, end).
		Group("scan_records.worker_id, workers.first_name, workers.last_name").
		Order("total_scans DESC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetEquipmentUtilization aggregates completed usage sessions per asset
func (ss *StatisticsService) GetEquipmentUtilization(start, end time.Time) ([]EquipmentUtilization, error) {
	var stats []EquipmentUtilization

	if err := ss.db.Table("usage_sessions").
		Select("usage_sessions.equipment_id, equipment.asset_code, equipment.name, "+
			"COUNT(*) as total_sessions, "+
			"SUM(usage_sessions.end_hours - usage_sessions.start_hours) as total_hours, "+
			"SUM(usage_sessions.fuel_used) as total_fuel").
		Joins("LEFT JOIN equipment ON usage_sessions.equipment_id = equipment.id").
		Where("usage_sessions.start_time BETWEEN ? AND ? AND usage_sessions.end_time IS NOT NULL", start, end).
		Group("usage_sessions.equipment_id, equipment.asset_code, equipment.name").
		Order("total_hours DESC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
