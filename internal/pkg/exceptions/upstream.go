package exceptions

import (
	"errors"
	"fmt"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"strings"
)

// UpstreamError is a non-2xx answer from OpenMRS. Its message is the raw
// response body so setup failures show exactly what the backend said.
type UpstreamError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func NewUpstreamError(method, url string, statusCode int, body []byte) *UpstreamError {
	return &UpstreamError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.StatusCode)
	}
	return e.Body
}

// UpstreamStatusCode returns the OpenMRS status carried by err, or 0.
func UpstreamStatusCode(err error) int {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode
	}
	return 0
}

func upstreamResponseStatus(err error) int {
	if UpstreamStatusCode(err) == constvars.StatusNotFound {
		return constvars.StatusNotFound
	}
	return constvars.StatusFailedDependency
}
