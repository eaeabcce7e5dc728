package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend request failed: %d", e.StatusCode)
	}
	return fmt.Sprintf("backend request failed: %d: %s", e.StatusCode, e.Message)
}

// StatusCode reports the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

type fieldError struct {
	Field          string `json:"field"`
	DefaultMessage string `json:"defaultMessage"`
}

// newAPIError understands the shapes the backend answers with: plain text,
// {"message": ...}, a list of strings or a list of {field, defaultMessage}.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		apiErr.Message = http.StatusText(statusCode)
		return apiErr
	}

	switch body[0] {
	case '[':
		var fields []fieldError
		if err := json.Unmarshal(body, &fields); err == nil && hasFields(fields) {
			apiErr.FieldErrors = make(map[string]string, len(fields))
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				apiErr.FieldErrors[f.Field] = f.DefaultMessage
				msgs = append(msgs, f.DefaultMessage)
			}
			apiErr.Message = strings.Join(msgs, ", ")
			return apiErr
		}
		var msgs []string
		if err := json.Unmarshal(body, &msgs); err == nil {
			apiErr.Message = strings.Join(msgs, ", ")
			return apiErr
		}
	case '{':
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &obj); err == nil {
			switch {
			case obj.Message != "":
				apiErr.Message = obj.Message
			case obj.Error != "":
				apiErr.Message = obj.Error
			default:
				apiErr.Message = http.StatusText(statusCode)
			}
			return apiErr
		}
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			apiErr.Message = s
			return apiErr
		}
	}

	apiErr.Message = string(body)
	return apiErr
}

func hasFields(fields []fieldError) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if f.Field == "" {
			return false
		}
	}
	return true
}
