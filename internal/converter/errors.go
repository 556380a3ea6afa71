package converter

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const msgConvertFailed = "Conversion failed"

// ServiceError is a non-2xx answer from the conversion endpoint.
type ServiceError struct {
	StatusCode int
	StatusText string
	// Detail is the service's "detail" string, if it sent one.
	Detail string
	// Structured is set when the body was JSON, whether or not it carried
	// a usable detail.
	Structured bool
}

func (e *ServiceError) Error() string {
	if e.Structured {
		if e.Detail != "" {
			return e.Detail
		}
		return msgConvertFailed
	}
	return fmt.Sprintf("Server error: %d %s", e.StatusCode, e.StatusText)
}

func newServiceError(resp *http.Response, body []byte, readErr error) *ServiceError {
	e := &ServiceError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	if readErr != nil {
		return e
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil || decoded == nil {
		return e
	}
	e.Structured = true
	if obj, ok := decoded.(map[string]any); ok {
		if detail, ok := obj["detail"].(string); ok {
			e.Detail = detail
		}
	}
	return e
}

// HealthError is a non-2xx answer from the health endpoint.
type HealthError struct {
	StatusCode int
	StatusText string
}

func (e *HealthError) Error() string {
	return fmt.Sprintf("health check failed: %d %s", e.StatusCode, e.StatusText)
}
