package steamapi

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/valyala/bytebufferpool"
)

// AuthenticationError is returned for HTTP 403: the API key is missing or invalid.
type AuthenticationError struct {
	APIKey string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("steamapi: authentication failed, api key %q was rejected", e.APIKey)
}

// MethodUnavailableError is returned for HTTP 404: the method does not exist or was retired.
type MethodUnavailableError struct {
	URL string
}

func (e *MethodUnavailableError) Error() string {
	return fmt.Sprintf("steamapi: method unavailable at %s", e.URL)
}

// InsufficientArgumentsError is returned for HTTP 400. Params holds the full query as sent.
type InsufficientArgumentsError struct {
	URL    string
	Params map[string]string
}

func (e *InsufficientArgumentsError) Error() string {
	return fmt.Sprintf("steamapi: insufficient arguments for %s with params %s", e.URL, renderParams(e.Params))
}

// TimeoutError is returned for HTTP 503 and for transport timeouts.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return "steamapi: request timed out"
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// RequestError covers every other failure. StatusCode is 0 when no response arrived.
type RequestError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("steamapi: request failed: %s", e.Reason)
	}
	return fmt.Sprintf("steamapi: request failed with status %d: %s", e.StatusCode, e.Reason)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func statusError(status int, reason, rawURL string, apiKey string, params map[string]string) error {
	switch status {
	case http.StatusForbidden:
		return &AuthenticationError{APIKey: apiKey}
	case http.StatusNotFound:
		return &MethodUnavailableError{URL: rawURL}
	case http.StatusBadRequest:
		return &InsufficientArgumentsError{URL: rawURL, Params: params}
	case http.StatusServiceUnavailable:
		return &TimeoutError{}
	default:
		if reason == "" {
			reason = http.StatusText(status)
		}
		return &RequestError{StatusCode: status, Reason: reason}
	}
}

// renderParams prints params as {k1: v1, k2: v2} with sorted keys so messages are stable.
func renderParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(key)
		_, _ = buf.WriteString(": ")
		_, _ = buf.WriteString(params[key])
	}
	_ = buf.WriteByte('}')
	return buf.String()
}
