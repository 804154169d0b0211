// Package transport is the single HTTP path to the OpenMRS REST API. It
// authenticates, throttles, encodes JSON and turns every non-2xx answer
// into an error carrying the raw response body. It never retries.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL           string
	Username          string
	Password          string
	RequestsPerSecond float64
	Timeout           time.Duration
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	// SessionID authenticates with the session cookie instead of basic auth.
	SessionID string
}

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL:    baseURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		Log:        logger,
	}
}

// URL resolves a resource path against the REST base URL.
func (c *Client) URL(path string, query url.Values) string {
	resolved := c.baseURL + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		resolved += "?" + query.Encode()
	}
	return resolved
}

// Do sends the request and decodes a 2xx body into out when out is not nil.
// A non-2xx answer is returned as *exceptions.UpstreamError.
func (c *Client) Do(ctx context.Context, request Request, out interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	endpoint := c.URL(request.Path, request.Query)

	var body io.Reader
	if request.Body != nil {
		payload, err := json.Marshal(request.Body)
		if err != nil {
			c.Log.Error("openmrsTransport.Do error marshaling request body",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingURLKey, endpoint),
				zap.Error(err),
			)
			return exceptions.ErrCannotMarshalJSON(err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, endpoint, body)
	if err != nil {
		c.Log.Error("openmrsTransport.Do error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingURLKey, endpoint),
			zap.Error(err),
		)
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if request.Body != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if request.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: constvars.SessionCookieName, Value: request.SessionID})
	} else {
		req.SetBasicAuth(c.username, c.password)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.Log.Error("openmrsTransport.Do rate limiter wait aborted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.Log.Error("openmrsTransport.Do error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, request.Method),
			zap.String(constvars.LoggingURLKey, endpoint),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Error("openmrsTransport.Do error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrReadResponseBody(err)
	}

	c.Log.Debug("openmrsTransport.Do response received",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, request.Method),
		zap.String(constvars.LoggingURLKey, endpoint),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(startTime)),
	)

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		upstreamErr := exceptions.NewUpstreamError(request.Method, endpoint, resp.StatusCode, bodyBytes)
		c.Log.Warn("openmrsTransport.Do non-success response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, request.Method),
			zap.String(constvars.LoggingURLKey, endpoint),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.String(constvars.LoggingResponseKey, upstreamErr.Body),
		)
		return upstreamErr
	}

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		c.Log.Error("openmrsTransport.Do error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingURLKey, endpoint),
			zap.Error(err),
		)
		return exceptions.ErrDecodeResponse(err, request.Path)
	}
	return nil
}

// ModulePath prefixes a billing resource with the configured module name.
func ModulePath(modulePrefix string, segments ...string) string {
	prefix := strings.Trim(modulePrefix, "/")
	if prefix == "" {
		prefix = constvars.BillingModuleBilling
	}
	return strings.Join(append([]string{prefix}, segments...), "/")
}
