package websocket

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kestrel/internal/models"
)

type WebSocketHandler struct {
	db        *gorm.DB
	hub       *Hub
	logger    *zap.Logger
	jwtSecret []byte
}

func NewWebSocketHandler(db *gorm.DB, logger *zap.Logger, jwtSecret string) *WebSocketHandler {
	hub := NewHub(logger)
	go hub.Run()

	return &WebSocketHandler{
		db:        db,
		hub:       hub,
		logger:    logger.With(zap.String("component", "ws-handler")),
		jwtSecret: []byte(jwtSecret),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	var userID uint
	var isAdmin bool

	tokenString := c.Query("token")
	if tokenString != "" {
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			return h.jwtSecret, nil
		})

		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if id, ok := claims["id"].(float64); ok {
					userID = uint(id)
				}
				if admin, ok := claims["isAdmin"].(bool); ok {
					isAdmin = admin
				}
			}
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
		isAdmin: isAdmin,
	}

	go client.HandleClientConnection()
}

// NotifyScanEvent fans a freshly recorded scan out to connected admin
// dashboards. Worker is nil for unmatched or errored scans.
func (h *WebSocketHandler) NotifyScanEvent(record models.ScanRecord, worker *models.Worker) {
	event := ScanEvent{
		Reference: record.Reference,
		Outcome:   string(record.Outcome),
		Location:  record.Location,
		Timestamp: record.Timestamp.Format(time.RFC3339),
	}

	if worker != nil {
		event.WorkerID = worker.ID
		event.WorkerName = worker.FullName()
		event.EmployeeID = worker.EmployeeID
	}

	h.hub.BroadcastScanEvent(event)
}

// NotifyDocumentExpiry warns dashboards about a credential inside the
// expiring window.
func (h *WebSocketHandler) NotifyDocumentExpiry(doc models.Document, daysLeft int) {
	event := map[string]interface{}{
		"reference": doc.Reference,
		"name":      doc.Name,
		"type":      doc.Type,
		"days_left": daysLeft,
	}
	if doc.ExpiryDate != nil {
		event["expiry_date"] = doc.ExpiryDate.Format("2006-01-02")
	}

	if doc.WorkerID != nil {
		var worker models.Worker
		if err := h.db.First(&worker, *doc.WorkerID).Error; err == nil {
			event["worker"] = map[string]interface{}{
				"id":   worker.ID,
				"name": worker.FullName(),
			}
		}
	}

	h.hub.BroadcastToAdmins("document_expiry", event)
}

func (h *WebSocketHandler) GetHub() *Hub {
	return h.hub
}
