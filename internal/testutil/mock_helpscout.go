// Package testutil provides testing utilities for the Help Scout client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// TokenPath is the identity endpoint path served by the mock.
const TokenPath = "/v2/oauth2/token"

// MockResponse defines the behavior for a mock API endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock Help Scout server for testing. It serves
// the OAuth2 token endpoint itself and lets tests register handlers for
// resource paths.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	TokenRequests     int
	LastRequestHeader http.Header
}

// NewMockAPI creates a new mock Help Scout server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		isToken := r.URL.Path == TokenPath
		if isToken {
			mock.TokenRequests++
		}
		tokenNumber := mock.TokenRequests
		mock.mu.Unlock()

		// Check for custom handler first so tests can break the token
		// endpoint too.
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		if isToken {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"access_token":"test-token-%d","token_type":"bearer","expires_in":7200}`, tokenNumber)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.TokenRequests = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetTokenRequests returns the number of grant requests the identity
// endpoint received.
func (m *MockAPI) GetTokenRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.TokenRequests
}

// LastBearerToken returns the token presented on the most recent request.
func (m *MockAPI) LastBearerToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LastRequestHeader == nil {
		return ""
	}
	return strings.TrimPrefix(m.LastRequestHeader.Get("Authorization"), "Bearer ")
}

// defaultHandler provides a default JSON 200 response.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// NewEmptyTokenResponse makes the identity endpoint return a grant without a
// usable access token.
func NewEmptyTokenResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"access_token":"","token_type":"bearer"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse(retryAfter string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Retry-After":  retryAfter,
			"Content-Type": "application/json",
		},
	}
}

// NewValidationErrorResponse creates a 400 response carrying field errors.
func NewValidationErrorResponse(validationErrors string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       fmt.Sprintf(`{"error":"invalid request","validationErrors":%s}`, validationErrors),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse(message string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       fmt.Sprintf(`{"error":%q}`, message),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewCreatedResponse creates a 201 response with a Location header.
func NewCreatedResponse(location string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{"Location": location},
	}
}

// NewPagedSearchHandler serves HAL-envelope search pages keyed by the page
// query parameter; pages are raw JSON arrays of items.
func NewPagedSearchHandler(embeddedKey string, pages []string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			fmt.Sscanf(p, "%d", &page)
		}

		w.Header().Set("Content-Type", "application/json")
		if page < 1 || page > len(pages) {
			fmt.Fprintf(w, `{"_embedded":{%q:[]},"page":{"number":%d,"totalPages":%d}}`,
				embeddedKey, page, len(pages))
			return
		}

		fmt.Fprintf(w, `{"_embedded":{%q:%s},"page":{"number":%d,"totalPages":%d}}`,
			embeddedKey, pages[page-1], page, len(pages))
	}
}
