package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
)

func init() {
	// Initialize logger for tests
	logger.Log = zap.NewNop()
}

// MockPushActivity mocks the PushActivity interface for handler tests.
type MockPushActivity struct {
	mock.Mock
}

func (m *MockPushActivity) ListCampaignViews(ctx context.Context) ([]model.CampaignView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CampaignView), args.Error(1)
}

func (m *MockPushActivity) GetCampaignStats(ctx context.Context, campaignID string) (*model.CampaignStats, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CampaignStats), args.Error(1)
}

func (m *MockPushActivity) GetPushStatus(ctx context.Context, campaignID string) (*model.PushStatus, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PushStatus), args.Error(1)
}

func (m *MockPushActivity) PushAll(ctx context.Context, campaignID string) (*model.PushResult, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PushResult), args.Error(1)
}

func (m *MockPushActivity) PushNew(ctx context.Context, campaignID string) (*model.PushResult, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PushResult), args.Error(1)
}

func (m *MockPushActivity) Sync(ctx context.Context) (*model.SyncSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncSummary), args.Error(1)
}

func (m *MockPushActivity) GetChangeLog(ctx context.Context, limit int) ([]model.ChangeLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChangeLogEntry), args.Error(1)
}

func (m *MockPushActivity) GetSyncStats(ctx context.Context) (*model.SyncStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncStats), args.Error(1)
}

func newTestServer(service PushActivity) *Server {
	return NewServer(0, service, zap.NewNop(), 50, 500)
}

func TestHandleListCampaigns(t *testing.T) {
	service := new(MockPushActivity)
	service.On("ListCampaignViews", mock.Anything).Return([]model.CampaignView{
		{ID: "cam_1", Name: "Outreach Q3", Status: "running", UniqueCompanyCount: 4},
	}, nil)
	service.On("GetSyncStats", mock.Anything).Return(&model.SyncStats{
		LatestRun: &model.SyncRun{RunID: "run-1", StartedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)},
	}, nil)
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Campaigns  []model.CampaignView `json:"campaigns"`
		LastUpdate string               `json:"last_update"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Campaigns, 1)
	assert.Equal(t, "cam_1", body.Campaigns[0].ID)
	assert.NotEmpty(t, body.LastUpdate)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandleCampaignStats_NotFound(t *testing.T) {
	service := new(MockPushActivity)
	service.On("GetCampaignStats", mock.Anything, "cam_missing").
		Return(nil, apperrors.ErrNotFound)
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/campaigns/cam_missing/stats", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePushStatus(t *testing.T) {
	service := new(MockPushActivity)
	service.On("GetPushStatus", mock.Anything, "cam_1").Return(&model.PushStatus{
		HasEverBeenPushed: true,
		TotalCompanies:    5,
		NewCompanies:      2,
		ShowPushNew:       true,
	}, nil)
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/campaigns/cam_1/push-status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status model.PushStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.ShowPushNew)
}

func TestHandlePush_Actions(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		setup      func(*MockPushActivity)
		wantStatus int
	}{
		{
			name: "empty body defaults to push_all",
			body: "",
			setup: func(m *MockPushActivity) {
				m.On("PushAll", mock.Anything, "cam_1").
					Return(&model.PushResult{Action: model.ChangePushAll, PushedCompanyCount: 3}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "action push_new",
			body: `{"action":"push_new"}`,
			setup: func(m *MockPushActivity) {
				m.On("PushNew", mock.Anything, "cam_1").
					Return(&model.PushResult{Action: model.ChangePushNew, PushedCompanyCount: 1}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown action rejected",
			body:       `{"action":"everything"}`,
			setup:      func(m *MockPushActivity) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body rejected",
			body:       `{"action":`,
			setup:      func(m *MockPushActivity) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "nothing to push",
			body: `{"action":"push_new"}`,
			setup: func(m *MockPushActivity) {
				m.On("PushNew", mock.Anything, "cam_1").
					Return(nil, apperrors.ErrBadRequest)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "publish failure maps to bad gateway",
			body: `{"action":"push_all"}`,
			setup: func(m *MockPushActivity) {
				m.On("PushAll", mock.Anything, "cam_1").
					Return(nil, apperrors.ErrPublish)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(MockPushActivity)
			tc.setup(service)
			srv := newTestServer(service)

			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/campaigns/cam_1/push", body))

			assert.Equal(t, tc.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestHandleChangeLog_LimitHandling(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		wantLimit  int
		wantStatus int
	}{
		{name: "default limit", query: "", wantLimit: 50, wantStatus: http.StatusOK},
		{name: "explicit limit", query: "?limit=10", wantLimit: 10, wantStatus: http.StatusOK},
		{name: "limit clamped to max", query: "?limit=9999", wantLimit: 500, wantStatus: http.StatusOK},
		{name: "invalid limit rejected", query: "?limit=zero", wantStatus: http.StatusBadRequest},
		{name: "negative limit rejected", query: "?limit=-5", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(MockPushActivity)
			if tc.wantStatus == http.StatusOK {
				service.On("GetChangeLog", mock.Anything, tc.wantLimit).
					Return([]model.ChangeLogEntry{}, nil)
			}
			srv := newTestServer(service)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/changelog"+tc.query, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestHandleSync_Conflict(t *testing.T) {
	service := new(MockPushActivity)
	service.On("Sync", mock.Anything).Return(nil, apperrors.ErrSyncInProgress)
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sync", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleSync_Success(t *testing.T) {
	service := new(MockPushActivity)
	service.On("Sync", mock.Anything).Return(&model.SyncSummary{
		RunID:              "run-1",
		CampaignsProcessed: 2,
	}, nil)
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.SyncSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "run-1", summary.RunID)
}

func TestHandleSyncStats(t *testing.T) {
	service := new(MockPushActivity)
	service.On("GetSyncStats", mock.Anything).Return(&model.SyncStats{
		TotalCampaigns: 3,
		TotalLeads:     120,
	}, nil)
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sync/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.SyncStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 120, stats.TotalLeads)
}

func TestHandleSyncStats_StoreUnavailable(t *testing.T) {
	service := new(MockPushActivity)
	service.On("GetSyncStats", mock.Anything).
		Return(nil, fmt.Errorf("%w: connection error (08006)", apperrors.ErrStoreUnavailable))
	srv := newTestServer(service)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sync/stats", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(new(MockPushActivity))

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
