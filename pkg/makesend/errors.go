package makesend

import (
	"encoding/json"
	"fmt"
)

// TransportFailureCode is the status code assigned to transport-level
// failures (network errors, timeouts, unparseable bodies) so that callers
// have a single error type to branch on.
const TransportFailureCode = 500

// APIError represents a failed Makesend API call. It covers both
// application-level failures (a non-200 resCode/status in the response
// body) and transport-level failures, which are normalized to
// TransportFailureCode.
type APIError struct {
	StatusCode int
	Message    string
	Raw        json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("makesend error (%d): %s", e.StatusCode, e.Message)
}

// Is implements errors.Is for APIError: two APIErrors match when they carry
// the same carrier status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// transportError wraps a transport-level failure into an APIError.
func transportError(err error) *APIError {
	return &APIError{StatusCode: TransportFailureCode, Message: err.Error()}
}

// envelope is the slice of every Makesend response that signals success.
// Depending on the endpoint the code lives in "resCode" or "status"; this
// parser normalizes both in one place.
type envelope struct {
	ResCode int    `json:"resCode"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// checkEnvelope inspects a raw response body and returns an APIError when
// either status field carries a non-200 value. A missing field decodes to
// zero and is ignored.
func checkEnvelope(raw []byte) *APIError {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{
			StatusCode: TransportFailureCode,
			Message:    fmt.Sprintf("decoding response: %v", err),
			Raw:        raw,
		}
	}

	msg := env.Message
	if msg == "" {
		msg = "API request failed"
	}

	if env.ResCode != 0 && env.ResCode != 200 {
		return &APIError{StatusCode: env.ResCode, Message: msg, Raw: raw}
	}
	if env.Status != 0 && env.Status != 200 {
		return &APIError{StatusCode: env.Status, Message: msg, Raw: raw}
	}
	return nil
}
