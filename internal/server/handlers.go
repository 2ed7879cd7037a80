package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// errorResponse is the uniform API error body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsNotFoundError(err):
		status = http.StatusNotFound
	case apperrors.IsValidationError(err), apperrors.IsBadRequestError(err):
		status = http.StatusBadRequest
	case apperrors.IsSyncInProgressError(err), apperrors.IsDuplicateError(err):
		status = http.StatusConflict
	case apperrors.IsUpstreamFeedError(err), apperrors.IsPublishError(err):
		status = http.StatusBadGateway
	case apperrors.IsStoreUnavailableError(err):
		status = http.StatusServiceUnavailable
	}

	log := logger.FromContextOr(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	utils.WriteJSONResponse(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	views, err := s.service.ListCampaignViews(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := map[string]any{"campaigns": views}
	if stats, err := s.service.GetSyncStats(r.Context()); err == nil && stats.LatestRun != nil {
		body["last_update"] = utils.FormatISO8601(stats.LatestRun.StartedAt)
	}
	utils.WriteJSONResponse(w, http.StatusOK, body)
}

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetCampaignStats(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) handlePushStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.GetPushStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, status)
}

// pushRequest is the body of POST /v1/campaigns/{id}/push.
type pushRequest struct {
	Action string `json:"action"`
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")

	var req pushRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteJSONResponse(w, http.StatusBadRequest,
				errorResponse{Error: "malformed request body"})
			return
		}
	}

	var result *model.PushResult
	var err error
	switch req.Action {
	case "", string(model.ChangePushAll):
		result, err = s.service.PushAll(r.Context(), campaignID)
	case string(model.ChangePushNew):
		result, err = s.service.PushNew(r.Context(), campaignID)
	default:
		utils.WriteJSONResponse(w, http.StatusBadRequest,
			errorResponse{Error: "action must be \"push_all\" or \"push_new\""})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

func (s *Server) handleChangeLog(w http.ResponseWriter, r *http.Request) {
	limit := s.changeLogDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.WriteJSONResponse(w, http.StatusBadRequest,
				errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > s.changeLogMaxLimit {
		limit = s.changeLogMaxLimit
	}

	entries, err := s.service.GetChangeLog(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Sync(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, summary)
}

func (s *Server) handleSyncStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetSyncStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, stats)
}
