package routers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/app/delivery/http/controllers"
	"openmrs-billing-e2e/internal/app/delivery/http/middlewares"
	"openmrs-billing-e2e/internal/app/models"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/dto/requests"
	"openmrs-billing-e2e/internal/pkg/dto/responses"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRunUsecase struct {
	mock.Mock
}

func (m *MockRunUsecase) StartRun(ctx context.Context, request *requests.StartRun) (*models.Run, error) {
	args := m.Called(ctx, request)
	run, _ := args.Get(0).(*models.Run)
	return run, args.Error(1)
}

func (m *MockRunUsecase) ExecuteRun(ctx context.Context, request *requests.StartRun) (*models.Run, error) {
	args := m.Called(ctx, request)
	run, _ := args.Get(0).(*models.Run)
	return run, args.Error(1)
}

func (m *MockRunUsecase) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	args := m.Called(ctx, runID)
	run, _ := args.Get(0).(*models.Run)
	return run, args.Error(1)
}

func (m *MockRunUsecase) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]models.Run)
	return runs, args.Error(1)
}

func (m *MockRunUsecase) ListSuites(ctx context.Context) []responses.Suite {
	args := m.Called(ctx)
	return args.Get(0).([]responses.Suite)
}

func (m *MockRunUsecase) Wait() {
	m.Called()
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const testAPIKey = "test-runner-api-key-12345"

func newTestRouter(runUsecase *MockRunUsecase) *chi.Mux {
	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix: "/api/v1",
			APIKey:         testAPIKey,
			MaxRequests:    100,
		},
	}
	router := chi.NewRouter()
	SetupRoutes(
		router,
		internalConfig,
		middlewares.NewMiddlewares(logger, internalConfig),
		controllers.NewRunController(logger, runUsecase),
	)
	return router
}

func TestRunRoutes(t *testing.T) {
	t.Run("Start Run With Valid API Key", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)
		runUsecase.On("StartRun", mock.Anything, &requests.StartRun{Suites: []string{"billing-basic"}}).
			Return(models.NewRun("run-1", "req-1", []string{"billing-basic"}), nil)

		body, _ := json.Marshal(requests.StartRun{Suites: []string{"billing-basic"}})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBuffer(body))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var response envelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, constvars.StartRunSuccessMessage, response.Message)

		var run models.Run
		require.NoError(t, json.Unmarshal(response.Data, &run))
		assert.Equal(t, "run-1", run.ID)
		assert.Equal(t, constvars.RunStatusRunning, run.Status)
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
		runUsecase.AssertExpectations(t)
	})

	t.Run("Start Run With Empty Body Runs Everything", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)
		runUsecase.On("StartRun", mock.Anything, &requests.StartRun{}).
			Return(models.NewRun("run-2", "", []string{"billing-basic"}), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		runUsecase.AssertExpectations(t)
	})

	t.Run("Start Run Without API Key", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		runUsecase.AssertNotCalled(t, "StartRun", mock.Anything, mock.Anything)
	})

	t.Run("Start Run With Malformed Body", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString(`{"suites":`))
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Start Run With Unknown Suite", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)
		runUsecase.On("StartRun", mock.Anything, mock.Anything).
			Return(nil, exceptions.ErrUnknownSuite("billing-refunds"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString(`{"suites":["billing-refunds"]}`))
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unknown suite billing-refunds")
	})

	t.Run("Get Unknown Run", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)
		runUsecase.On("GetRun", mock.Anything, "missing").
			Return(nil, exceptions.ErrRunNotFound(nil, "missing"))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		runUsecase.AssertExpectations(t)
	})

	t.Run("List Runs Passes Limit", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)
		runUsecase.On("ListRuns", mock.Anything, 5).Return([]models.Run{{ID: "run-1"}}, nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=5", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		runUsecase.AssertExpectations(t)
	})

	t.Run("List Runs Ignores Bad Limit", func(t *testing.T) {
		runUsecase := new(MockRunUsecase)
		router := newTestRouter(runUsecase)
		runUsecase.On("ListRuns", mock.Anything, 0).Return([]models.Run{}, nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=many", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		runUsecase.AssertExpectations(t)
	})
}

func TestSuiteRoutes(t *testing.T) {
	runUsecase := new(MockRunUsecase)
	router := newTestRouter(runUsecase)
	runUsecase.On("ListSuites", mock.Anything).Return([]responses.Suite{
		{Name: "billing-basic", Description: "Smoke checks", Cases: 2},
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/suites", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var response envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

	var suites []responses.Suite
	require.NoError(t, json.Unmarshal(response.Data, &suites))
	require.Len(t, suites, 1)
	assert.Equal(t, "billing-basic", suites[0].Name)

	t.Run("Unknown Route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/refunds", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
