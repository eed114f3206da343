package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kestrel/internal/models"
)

// GallagherClient talks to the site's Gallagher access-control controller.
// The controller owns the physical gates; this system pushes cardholder
// records to it and surfaces its health on the dashboard. With no base URL
// configured the client reports itself disabled and every call is a no-op.
type GallagherClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

type HealthStatus struct {
	Enabled   bool   `json:"enabled"`
	Healthy   bool   `json:"healthy"`
	Detail    string `json:"detail,omitempty"`
	CheckedAt string `json:"checked_at"`
}

func NewGallagherClient(baseURL, apiKey string, logger *zap.Logger) *GallagherClient {
	return &GallagherClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With(zap.String("service", "gallagher")),
	}
}

func (g *GallagherClient) Enabled() bool {
	return g.baseURL != ""
}

// HealthStatus probes the controller's API root. Failures are reported in
// the payload rather than as an error so the dashboard endpoint can always
// return 200 with the current state.
func (g *GallagherClient) HealthStatus(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Enabled:   g.Enabled(),
		CheckedAt: time.Now().Format(time.RFC3339),
	}

	if !g.Enabled() {
		status.Detail = "no controller configured"
		return status
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api", nil)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	req.Header.Set("Authorization", "GGL-API-KEY "+g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Detail = fmt.Sprintf("controller returned %d", resp.StatusCode)
		return status
	}

	status.Healthy = true
	return status
}

// SyncWorker pushes a worker to the controller as a cardholder. Callers
// run this best-effort off the request path; a failed sync is logged and
// retried on the next mutation, never surfaced to the API client.
func (g *GallagherClient) SyncWorker(ctx context.Context, worker models.Worker) error {
	if !g.Enabled() {
		return nil
	}

	payload := map[string]interface{}{
		"firstName":   worker.FirstName,
		"lastName":    worker.LastName,
		"shortName":   worker.EmployeeID,
		"description": worker.Role,
		"division":    worker.Department,
		"authorised":  worker.Status == models.WorkerStatusActive,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/cardholders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "GGL-API-KEY "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.logger.Warn("cardholder sync failed",
			zap.String("employee_id", worker.EmployeeID), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("cardholder sync returned %d", resp.StatusCode)
		g.logger.Warn("cardholder sync rejected",
			zap.String("employee_id", worker.EmployeeID), zap.Int("status", resp.StatusCode))
		return err
	}

	g.logger.Info("cardholder synced", zap.String("employee_id", worker.EmployeeID))
	return nil
}
