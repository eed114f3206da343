package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kestrel/internal/config"
	"kestrel/internal/logger"
	"kestrel/internal/models"
	"kestrel/internal/routes"
)

func getTimePtr(t time.Time) *time.Time {
	return &t
}

func getUintPtr(u uint) *uint {
	return &u
}

func main() {
	appConfig := config.Load()

	appLogger, err := logger.New(appConfig.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	db, err := setupDatabase(appConfig, appLogger)
	if err != nil {
		appLogger.Fatal("database setup failed", zap.Error(err))
	}

	router := routes.SetupRouter(db, appConfig, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Port),
		Handler: router,
	}

	go func() {
		appLogger.Info("server started", zap.String("port", appConfig.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
}

func setupDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Worker{},
		&models.Contractor{},
		&models.Document{},
		&models.Skill{},
		&models.Equipment{},
		&models.UsageSession{},
		&models.TrainingProgram{},
		&models.TrainingRecord{},
		&models.ScanRecord{},
	); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	if err := createInitialData(db, log); err != nil {
		return nil, fmt.Errorf("initial data setup failed: %w", err)
	}

	return db, nil
}

func createInitialData(db *gorm.DB, log *zap.Logger) error {
	var adminCount int64
	if err := db.Model(&models.User{}).Where("is_admin = ?", true).Count(&adminCount).Error; err != nil {
		return err
	}

	adminUsername := getEnv("ADMIN_USERNAME", "admin")

	if adminCount == 0 {
		var existingUser models.User
		result := db.Where("username = ?", adminUsername).First(&existingUser)

		if result.Error == nil {
			existingUser.IsAdmin = true
			if err := db.Save(&existingUser).Error; err != nil {
				return err
			}
			log.Info("existing user promoted to admin", zap.String("username", adminUsername))
		} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			adminUser := models.User{
				Username: adminUsername,
				Password: getEnv("ADMIN_PASSWORD", "Admin123!"),
				Email:    getEnv("ADMIN_EMAIL", "admin@kestrelmining.example"),
				IsAdmin:  true,
				Active:   true,
			}

			if err := db.Create(&adminUser).Error; err != nil {
				return err
			}
			log.Info("default admin user created", zap.String("username", adminUsername))
		} else {
			return result.Error
		}
	}

	seedDemo := getEnv("SEED_DEMO_DATA", "true")
	if seedDemo != "true" {
		return nil
	}

	var workerCount int64
	if err := db.Model(&models.Worker{}).Count(&workerCount).Error; err != nil {
		return err
	}
	if workerCount > 0 {
		return nil
	}

	now := time.Now()

	workers := []models.Worker{
		{
			EmployeeID: "KM-1001",
			FirstName:  "Grace",
			LastName:   "Okafor",
			Role:       "Shift Supervisor",
			Department: "Operations",
			Status:     models.WorkerStatusActive,
			Email:      "grace.okafor@kestrelmining.example",
		},
		{
			EmployeeID: "KM-1002",
			FirstName:  "Daniel",
			LastName:   "Reyes",
			Role:       "Haul Truck Operator",
			Department: "Operations",
			Status:     models.WorkerStatusActive,
			Email:      "daniel.reyes@kestrelmining.example",
		},
		{
			EmployeeID: "KM-1003",
			FirstName:  "Mia",
			LastName:   "Thompson",
			Role:       "Geologist",
			Department: "Exploration",
			Status:     models.WorkerStatusActive,
			Email:      "mia.thompson@kestrelmining.example",
		},
		{
			EmployeeID: "KM-1004",
			FirstName:  "Lars",
			LastName:   "Nilsen",
			Role:       "Blast Technician",
			Department: "Drill and Blast",
			Status:     models.WorkerStatusPending,
			Email:      "lars.nilsen@kestrelmining.example",
		},
	}
	for i := range workers {
		if err := db.Create(&workers[i]).Error; err != nil {
			return err
		}
	}
	log.Info("demo workers created", zap.Int("count", len(workers)))

	contractors := []models.Contractor{
		{
			Company:         "Redline Drilling Pty Ltd",
			ContactName:     "Sam Whitford",
			Email:           "sam@redlinedrilling.example",
			Certified:       true,
			InductionExpiry: getTimePtr(now.AddDate(0, 6, 0)),
		},
		{
			Company:         "Apex Haulage Services",
			ContactName:     "Priya Nair",
			Email:           "priya@apexhaulage.example",
			Certified:       false,
			InductionExpiry: getTimePtr(now.AddDate(0, 0, 14)),
		},
	}
	for i := range contractors {
		if err := db.Create(&contractors[i]).Error; err != nil {
			return err
		}
	}

	documents := []models.Document{
		{
			Reference:  "doc-seed-0001",
			Name:       "High Risk Work Licence",
			Type:       models.DocumentTypeLicense,
			WorkerID:   getUintPtr(workers[0].ID),
			ExpiryDate: getTimePtr(now.AddDate(1, 0, 0)),
			Status:     models.ExpiryStatusValid,
		},
		{
			Reference:  "doc-seed-0002",
			Name:       "Site Induction",
			Type:       models.DocumentTypeInduction,
			WorkerID:   getUintPtr(workers[1].ID),
			ExpiryDate: getTimePtr(now.AddDate(0, 0, 12)),
			Status:     models.ExpiryStatusExpiring,
		},
		{
			Reference:  "doc-seed-0003",
			Name:       "Coal Board Medical",
			Type:       models.DocumentTypeMedical,
			WorkerID:   getUintPtr(workers[2].ID),
			ExpiryDate: getTimePtr(now.AddDate(0, -1, 0)),
			Status:     models.ExpiryStatusExpired,
		},
	}
	for i := range documents {
		if err := db.Create(&documents[i]).Error; err != nil {
			return err
		}
	}

	equipment := []models.Equipment{
		{AssetCode: "EX-201", Name: "Excavator 201", Category: "excavator", Status: models.EquipmentStatusAvailable, Site: "North Pit"},
		{AssetCode: "HT-305", Name: "Haul Truck 305", Category: "haul_truck", Status: models.EquipmentStatusAvailable, Site: "North Pit"},
		{AssetCode: "DR-102", Name: "Drill Rig 102", Category: "drill_rig", Status: models.EquipmentStatusMaintenance, Site: "South Pit"},
	}
	for i := range equipment {
		if err := db.Create(&equipment[i]).Error; err != nil {
			return err
		}
	}

	programs := []models.TrainingProgram{
		{Name: "Working at Heights", Category: "safety", Priority: models.TrainingPriorityCritical, DurationHours: 8, Active: true},
		{Name: "Confined Space Entry", Category: "safety", Priority: models.TrainingPriorityHigh, DurationHours: 16, Active: true},
		{Name: "Haul Truck Refresher", Category: "operations", Priority: models.TrainingPriorityMedium, DurationHours: 4, Active: true},
	}
	for i := range programs {
		if err := db.Create(&programs[i]).Error; err != nil {
			return err
		}
	}

	records := []models.TrainingRecord{
		{
			WorkerID:    workers[0].ID,
			ProgramID:   programs[0].ID,
			CompletedAt: now.AddDate(0, -2, 0),
			ExpiryDate:  getTimePtr(now.AddDate(1, 10, 0)),
			Status:      models.ExpiryStatusValid,
		},
		{
			WorkerID:    workers[1].ID,
			ProgramID:   programs[2].ID,
			CompletedAt: now.AddDate(-1, 0, 0),
			ExpiryDate:  getTimePtr(now.AddDate(0, 0, 20)),
			Status:      models.ExpiryStatusExpiring,
		},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			return err
		}
	}

	log.Info("demo data created")
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
