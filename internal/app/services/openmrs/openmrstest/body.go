package openmrstest

import (
	"bytes"
	"io"
	"net/http"
)

// readAll reads the request body and puts it back so later handlers can
// read it again.
func readAll(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
