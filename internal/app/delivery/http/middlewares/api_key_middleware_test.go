package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddlewares(apiKey string) *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{
			APIKey:      apiKey,
			MaxRequests: 2,
		},
	})
}

func TestRequireAPIKey(t *testing.T) {
	testAPIKey := "test-runner-api-key-12345"
	middlewares := newTestMiddlewares(testAPIKey)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeyAuth, ok := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH_KEY).(bool)
		assert.True(t, ok, "api key flag should be set")
		assert.True(t, apiKeyAuth)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		middlewares.RequireAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)

		rr := httptest.NewRecorder()
		middlewares.RequireAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), constvars.ErrClientNotAuthorized)
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set(constvars.HeaderXAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		middlewares.RequireAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Case Sensitivity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set(constvars.HeaderXAPIKey, strings.ToUpper(testAPIKey))

		rr := httptest.NewRecorder()
		middlewares.RequireAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Whitespace in API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
		req.Header.Set(constvars.HeaderXAPIKey, " "+testAPIKey+" ")

		rr := httptest.NewRecorder()
		middlewares.RequireAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("No Key Configured", func(t *testing.T) {
		open := newTestMiddlewares("")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)

		var reached bool
		rr := httptest.NewRecorder()
		open.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			_, ok := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH_KEY).(bool)
			assert.False(t, ok)
			w.WriteHeader(http.StatusAccepted)
		})).ServeHTTP(rr, req)

		assert.True(t, reached)
		assert.Equal(t, http.StatusAccepted, rr.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := newTestMiddlewares("")

	var captured context.Context
	handler := middlewares.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context()
	}))

	t.Run("Client Request ID Is Kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/suites", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-id", rr.Header().Get(constvars.HeaderXRequestID))
		assert.Equal(t, "client-id", captured.Value(constvars.CONTEXT_REQUEST_ID_KEY))
		assert.Equal(t, true, captured.Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY))
	})

	t.Run("Request ID Is Generated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/suites", nil)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		requestID := rr.Header().Get(constvars.HeaderXRequestID)
		assert.True(t, strings.HasPrefix(requestID, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, requestID, captured.Value(constvars.CONTEXT_REQUEST_ID_KEY))
		assert.Equal(t, false, captured.Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY))
	})
}

func TestErrorHandler(t *testing.T) {
	middlewares := newTestMiddlewares("")

	t.Run("Panic Becomes Internal Server Error", func(t *testing.T) {
		handler := middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		require.NotPanics(t, func() {
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), constvars.ErrClientSomethingWrongWithApplication)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		middlewares.NotFound(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRateLimit(t *testing.T) {
	middlewares := newTestMiddlewares("")
	handler := middlewares.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/suites", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
