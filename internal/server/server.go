package server

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// PushActivity is the slice of the usecase layer the HTTP surface needs.
type PushActivity interface {
	ListCampaignViews(ctx context.Context) ([]model.CampaignView, error)
	GetCampaignStats(ctx context.Context, campaignID string) (*model.CampaignStats, error)
	GetPushStatus(ctx context.Context, campaignID string) (*model.PushStatus, error)
	PushAll(ctx context.Context, campaignID string) (*model.PushResult, error)
	PushNew(ctx context.Context, campaignID string) (*model.PushResult, error)
	Sync(ctx context.Context) (*model.SyncSummary, error)
	GetChangeLog(ctx context.Context, limit int) ([]model.ChangeLogEntry, error)
	GetSyncStats(ctx context.Context) (*model.SyncStats, error)
}

// Server hosts the dashboard API plus the health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	service    PushActivity
	logger     *zap.Logger

	changeLogDefaultLimit int
	changeLogMaxLimit     int
}

// HealthResponse is the response structure for health check endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// NewServer creates the API server. Port is numeric; limits bound the
// changelog page size.
func NewServer(port int, service PushActivity, logger *zap.Logger, changeLogDefaultLimit, changeLogMaxLimit int) *Server {
	mux := http.NewServeMux()

	server := &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		mux:                   mux,
		service:               service,
		logger:                logger,
		changeLogDefaultLimit: changeLogDefaultLimit,
		changeLogMaxLimit:     changeLogMaxLimit,
	}

	mux.HandleFunc("/health", server.handleHealth)
	mux.HandleFunc("/ready", server.handleReady)

	mux.Handle("GET /v1/campaigns", server.instrument("/v1/campaigns", server.handleListCampaigns))
	mux.Handle("GET /v1/campaigns/{id}/stats", server.instrument("/v1/campaigns/{id}/stats", server.handleCampaignStats))
	mux.Handle("GET /v1/campaigns/{id}/push-status", server.instrument("/v1/campaigns/{id}/push-status", server.handlePushStatus))
	mux.Handle("POST /v1/campaigns/{id}/push", server.instrument("/v1/campaigns/{id}/push", server.handlePush))
	mux.Handle("GET /v1/changelog", server.instrument("/v1/changelog", server.handleChangeLog))
	mux.Handle("POST /v1/sync", server.instrument("/v1/sync", server.handleSync))
	mux.Handle("GET /v1/sync/stats", server.instrument("/v1/sync/stats", server.handleSyncStats))

	return server
}

// RegisterMetricsHandler adds the /metrics endpoint handler.
// Should only be called if metrics are enabled.
func (s *Server) RegisterMetricsHandler(handler http.Handler) {
	s.logger.Info("Registering /metrics endpoint")
	s.mux.Handle("/metrics", handler)
}

// Handler exposes the routing mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins the HTTP server
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting API server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles the /health endpoint for liveness probes
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "UP",
		Version: "1.0.0",
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// handleReady handles the /ready endpoint for readiness probes
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "READY",
		Details: map[string]string{
			"timestamp": utils.FormatISO8601(utils.Now()),
		},
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}
