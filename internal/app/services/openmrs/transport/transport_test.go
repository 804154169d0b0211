package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:  server.URL + "/openmrs/ws/rest/v1",
		Username: "admin",
		Password: "Admin123",
	}, zap.NewNop())
}

func TestClientDo(t *testing.T) {
	t.Run("Sends Basic Auth And Decodes Body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "admin", username)
			assert.Equal(t, "Admin123", password)
			assert.Equal(t, "/openmrs/ws/rest/v1/billing/paymentMode", r.URL.Path)
			w.Write([]byte(`{"results":[{"uuid":"m-1","name":"Cash"}]}`))
		})

		var out struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		}
		err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "billing/paymentMode"}, &out)

		require.NoError(t, err)
		require.Len(t, out.Results, 1)
		assert.Equal(t, "Cash", out.Results[0].Name)
	})

	t.Run("Non Success Carries Raw Body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Invalid Submission"}}`))
		})

		err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "patient", Body: map[string]string{}}, nil)

		var upstreamErr *exceptions.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
		assert.Equal(t, `{"error":{"message":"Invalid Submission"}}`, upstreamErr.Error())
	})

	t.Run("Failed Request Is Not Retried", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "billing/bill"}, nil)

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Empty Body Leaves Output Untouched", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "purge=true", r.URL.RawQuery)
			w.WriteHeader(http.StatusNoContent)
		})

		var out map[string]interface{}
		err := client.Do(context.Background(), Request{
			Method: http.MethodDelete,
			Path:   "billing/bill/b-1",
			Query:  map[string][]string{"purge": {"true"}},
		}, &out)

		assert.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("Session Cookie Replaces Basic Auth", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _, ok := r.BasicAuth()
			assert.False(t, ok)
			cookie, err := r.Cookie("JSESSIONID")
			require.NoError(t, err)
			assert.Equal(t, "abc", cookie.Value)
			w.Write([]byte(`{}`))
		})

		err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "session", Body: map[string]string{}, SessionID: "abc"}, nil)

		assert.NoError(t, err)
	})

	t.Run("Invalid JSON Is A Decode Error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		})

		var out map[string]interface{}
		err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "session"}, &out)

		assert.Error(t, err)
		assert.Equal(t, exceptions.KindSetup, exceptions.KindOf(err))
	})
}

func TestModulePath(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		segments []string
		expected string
	}{
		{name: "Billing Prefix", prefix: "billing", segments: []string{"bill"}, expected: "billing/bill"},
		{name: "Cashier Prefix", prefix: "cashier", segments: []string{"cashPoint"}, expected: "cashier/cashPoint"},
		{name: "Slashes Trimmed", prefix: "/cashier/", segments: []string{"bill", "x"}, expected: "cashier/bill/x"},
		{name: "Empty Prefix Defaults To Billing", prefix: "", segments: []string{"paymentMode"}, expected: "billing/paymentMode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ModulePath(tc.prefix, tc.segments...))
		})
	}
}

func TestClientURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost/openmrs/ws/rest/v1/"}, zap.NewNop())

	t.Run("Joins Without Double Slash", func(t *testing.T) {
		assert.Equal(t, "http://localhost/openmrs/ws/rest/v1/patient", client.URL("/patient", nil))
	})

	t.Run("Encodes Query", func(t *testing.T) {
		assert.Equal(t, "http://localhost/openmrs/ws/rest/v1/billing/bill?patient=p-1&v=full",
			client.URL("billing/bill", map[string][]string{"patient": {"p-1"}, "v": {"full"}}))
	})
}
