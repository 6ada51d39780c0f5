package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies an API error by the condition that produced it.
type ErrorKind string

const (
	// ErrorKindValidation is returned for 400 responses and carries the
	// structured field errors from the response body.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindUnauthorized is returned for 401 responses and for failed
	// token acquisition.
	ErrorKindUnauthorized ErrorKind = "unauthorized"

	// ErrorKindForbidden is returned for 403 responses.
	ErrorKindForbidden ErrorKind = "forbidden"

	// ErrorKindNotFound is returned for 404 responses.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindTooManyRequests is returned for 429 responses and carries the
	// Retry-After guidance.
	ErrorKindTooManyRequests ErrorKind = "too_many_requests"

	// ErrorKindInternalServer is returned for 500 responses.
	ErrorKindInternalServer ErrorKind = "internal_server"

	// ErrorKindServiceUnavailable is returned for 503 responses.
	ErrorKindServiceUnavailable ErrorKind = "service_unavailable"

	// ErrorKindNotImplemented is returned for any status code the client has
	// no mapping for.
	ErrorKindNotImplemented ErrorKind = "not_implemented"
)

// rateLimitPolicy describes the Mailbox API rate-limit policy, surfaced in
// 429 error messages. The client never sleeps or backs off on its own.
const rateLimitPolicy = "the API allows 400 requests per minute per client; pause before retrying"

// APIError is the error returned for every non-success API outcome.
type APIError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string

	// RetryAfter is the raw Retry-After header value on 429 responses.
	RetryAfter string

	// ValidationErrors holds the response's validationErrors payload on 400
	// responses, unparsed.
	ValidationErrors json.RawMessage

	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("helpscout %s error (status %d): %s: %v",
			e.Kind, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("helpscout %s error (status %d): %s",
		e.Kind, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an unauthorized API error.
func IsUnauthorized(err error) bool {
	return kindOf(err) == ErrorKindUnauthorized
}

// IsNotFound reports whether err is a not-found API error.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrorKindNotFound
}

// IsRateLimited reports whether err is a too-many-requests API error.
func IsRateLimited(err error) bool {
	return kindOf(err) == ErrorKindTooManyRequests
}

func kindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// errorBody is the error envelope the API puts in non-success bodies.
type errorBody struct {
	Error            string          `json:"error"`
	Message          string          `json:"message"`
	ValidationErrors json.RawMessage `json:"validationErrors"`
}

// errorFromResponse maps a non-success response to its typed error.
// The status table is fixed; anything unmapped becomes a not-implemented
// error carrying the status code.
func errorFromResponse(resp *Response) *APIError {
	var body errorBody
	// A non-JSON or empty error body is fine, fields just stay empty.
	_ = json.Unmarshal(resp.Body, &body)

	switch resp.StatusCode {
	case 400:
		return &APIError{
			StatusCode:       resp.StatusCode,
			Kind:             ErrorKindValidation,
			Message:          "request validation failed",
			ValidationErrors: body.ValidationErrors,
		}
	case 401:
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindUnauthorized,
			Message:    "bearer token rejected",
		}
	case 403:
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindForbidden,
			Message:    "access forbidden",
		}
	case 404:
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindNotFound,
			Message:    "resource not found",
		}
	case 429:
		retryAfter := resp.Header.Get("Retry-After")
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindTooManyRequests,
			Message:    fmt.Sprintf("rate limit exceeded, Retry-After: %s (%s)", retryAfter, rateLimitPolicy),
			RetryAfter: retryAfter,
		}
	case 500:
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindInternalServer,
			Message:    body.Error,
		}
	case 503:
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindServiceUnavailable,
			Message:    "service unavailable",
		}
	default:
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		if body.Message != "" {
			msg = fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body.Message)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrorKindNotImplemented,
			Message:    msg,
		}
	}
}
