package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kestrel/internal/config"
	"kestrel/internal/handlers"
	"kestrel/internal/integration"
	"kestrel/internal/middleware"
	"kestrel/internal/utils"
	"kestrel/internal/websocket"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.Default()

	gallagher := integration.NewGallagherClient(cfg.GallagherBaseURL, cfg.GallagherAPIKey, logger)
	scanService := utils.NewScanService(db, logger)

	authMiddleware := middleware.NewAuthMiddleware(db, cfg.JWTSecret)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(cfg)

	authHandler := handlers.NewAuthHandler(db, authMiddleware)
	workerHandler := handlers.NewWorkerHandler(db, gallagher)
	contractorHandler := handlers.NewContractorHandler(db)
	documentHandler := handlers.NewDocumentHandler(db)
	equipmentHandler := handlers.NewEquipmentHandler(db)
	skillHandler := handlers.NewSkillHandler(db)
	trainingHandler := handlers.NewTrainingHandler(db)
	scannerHandler := handlers.NewScannerHandler(db, scanService, logger)
	integrationHandler := handlers.NewIntegrationHandler(gallagher)

	var wsHandler *websocket.WebSocketHandler
	if cfg.EnableWebsocket {
		wsHandler = websocket.NewWebSocketHandler(db, logger, cfg.JWTSecret)

		scanService.SetWebSocketHandler(wsHandler)
		documentHandler.SetWebSocketHandler(wsHandler)
	}

	if cfg.EnableWebsocket {
		router.GET("/ws", wsHandler.HandleWebSocket)
	}

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), authHandler.Register)
		auth.GET("/me", authMiddleware.AuthRequired(), authHandler.GetMe)
		auth.POST("/change-password", authMiddleware.AuthRequired(), authHandler.ChangePassword)
	}

	if cfg.EnableRESTAPI {
		api := router.Group("/api")

		api.Use(authMiddleware.AuthRequired())
		{
			workers := api.Group("/workers")
			workers.Use(authMiddleware.AdminRequired())
			{
				workers.GET("", workerHandler.GetWorkers)
				workers.GET("/:id", workerHandler.GetWorker)
				workers.POST("", workerHandler.CreateWorker)
				workers.PUT("/:id", workerHandler.UpdateWorker)
				workers.DELETE("/:id", workerHandler.DeleteWorker)
				workers.GET("/:id/documents", workerHandler.GetWorkerDocuments)
				workers.GET("/:id/skills", workerHandler.GetWorkerSkills)
				workers.GET("/:id/scans", workerHandler.GetWorkerScans)
			}

			contractors := api.Group("/contractors")
			contractors.Use(authMiddleware.AdminRequired())
			{
				contractors.GET("", contractorHandler.GetContractors)
				contractors.GET("/:id", contractorHandler.GetContractor)
				contractors.POST("", contractorHandler.CreateContractor)
				contractors.PUT("/:id", contractorHandler.UpdateContractor)
				contractors.DELETE("/:id", contractorHandler.DeleteContractor)
			}

			documents := api.Group("/documents")
			documents.Use(authMiddleware.AdminRequired())
			{
				documents.GET("", documentHandler.GetDocuments)
				documents.GET("/expiring", documentHandler.GetExpiringDocuments)
				documents.GET("/:id", documentHandler.GetDocument)
				documents.POST("", documentHandler.CreateDocument)
				documents.PUT("/:id", documentHandler.UpdateDocument)
				documents.DELETE("/:id", documentHandler.DeleteDocument)
			}

			equipment := api.Group("/equipment")
			equipment.Use(authMiddleware.AdminRequired())
			{
				equipment.GET("", equipmentHandler.GetEquipment)
				equipment.GET("/:id", equipmentHandler.GetEquipmentItem)
				equipment.POST("", equipmentHandler.CreateEquipment)
				equipment.PUT("/:id", equipmentHandler.UpdateEquipment)
				equipment.DELETE("/:id", equipmentHandler.DeleteEquipment)

				equipment.GET("/sessions", equipmentHandler.GetSessions)
				equipment.POST("/sessions", equipmentHandler.StartSession)
				equipment.POST("/sessions/:id/end", equipmentHandler.EndSession)
				equipment.GET("/utilization", equipmentHandler.GetUtilization)
			}

			skills := api.Group("/skills")
			skills.Use(authMiddleware.AdminRequired())
			{
				skills.GET("", skillHandler.GetSkills)
				skills.POST("", skillHandler.CreateSkill)
				skills.DELETE("/:id", skillHandler.DeleteSkill)
			}

			training := api.Group("/training")
			training.Use(authMiddleware.AdminRequired())
			{
				training.GET("/programs", trainingHandler.GetPrograms)
				training.GET("/programs/:id", trainingHandler.GetProgram)
				training.POST("/programs", trainingHandler.CreateProgram)
				training.PUT("/programs/:id", trainingHandler.UpdateProgram)

				training.GET("/records", trainingHandler.GetRecords)
				training.POST("/records", trainingHandler.CreateRecord)
				training.DELETE("/records/:id", trainingHandler.DeleteRecord)
			}

			scanner := api.Group("/scanner")
			scanner.Use(authMiddleware.AdminRequired())
			{
				scanner.GET("", scannerHandler.GetScans)
				scanner.GET("/:id", scannerHandler.GetScan)
				scanner.POST("", scannerHandler.RecordScan)

				scanner.GET("/stats/locations", scannerHandler.GetLocationStats)
				scanner.GET("/stats/workers", scannerHandler.GetWorkerStats)
				scanner.GET("/stats/time-series", scannerHandler.GetScanTimeSeries)
				scanner.GET("/stats/most-active-workers", scannerHandler.GetMostActiveWorkers)
			}

			api.GET("/integration/health", integrationHandler.GetHealth)
		}
	}

	// Device-facing endpoint: hand-held scanners post here with a shared
	// API key instead of a user session.
	device := router.Group("/scanner")

	if cfg.APIKeyRequired {
		device.Use(apiKeyMiddleware.APIKeyRequired())
	}

	{
		device.POST("", scannerHandler.RecordScan)
		device.POST("/scan", scannerHandler.RecordScan)
	}

	return router
}
