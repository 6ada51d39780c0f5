package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

// trailingDigits extracts the numeric resource ID from a Location header.
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Response is the outcome of a single dispatched request. It is a per-call
// value, so concurrent calls on one client never clobber each other's
// response metadata.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body is the raw response body. Empty for 204 responses.
	Body []byte
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// CreatedID returns the numeric ID of a created resource, extracted from the
// trailing digits of the Location header. Empty when the header is missing
// or carries no ID.
func (r *Response) CreatedID() string {
	location := r.Header.Get("Location")
	if location == "" {
		return ""
	}
	return trailingDigits.FindString(location)
}
