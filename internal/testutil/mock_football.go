// Package testutil provides testing utilities for the footdata module.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock api-football endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockFootball is a configurable mock api-football server. Paths are matched
// without version prefix ("/teams", "/players", ...), mirroring the real API.
type MockFootball struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
}

// NewMockFootball creates a new mock api-football server.
func NewMockFootball() *MockFootball {
	mock := &MockFootball{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.hits[r.URL.Path]++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Unconfigured paths answer with an empty result set.
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, Envelope(r.URL.Path, "[]", 1, 1))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFootball) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFootball) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and handlers.
func (m *MockFootball) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.handlers = make(map[string]http.HandlerFunc)
	m.hits = make(map[string]int)
}

// HitCount returns how many requests the given path has received.
func (m *MockFootball) HitCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits[path]
}

// TotalHits returns the total number of requests across all paths.
func (m *MockFootball) TotalHits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// SetHandler sets a custom handler for a specific path.
func (m *MockFootball) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a raw response for a path.
func (m *MockFootball) SetResponse(path string, resp MockResponse) {
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

// Respond configures a 200 response wrapping the given JSON array in a
// single-page api-football envelope.
func (m *MockFootball) Respond(path, responseArray string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, Envelope(path, responseArray, 1, 1))
	})
}

// RespondPaged configures a path that serves a different response array per
// `page` query parameter, all declaring the same page total.
func (m *MockFootball) RespondPaged(path string, pages map[string]string, totalPages int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		body, ok := pages[page]
		if !ok {
			body = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"get":%q,"results":1,"paging":{"current":%s,"total":%d},"response":%s}`,
			path, page, totalPages, body)
	})
}

// Fail configures a path to answer with the given HTTP error status.
func (m *MockFootball) Fail(path string, status int) {
	m.SetResponse(path, MockResponse{
		StatusCode: status,
		Body:       `{"message":"upstream error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

// FailThenSucceed configures a path to fail with the given status for the
// first n requests and serve the enveloped array afterwards.
func (m *MockFootball) FailThenSucceed(path string, failures, status int, responseArray string) {
	var mu sync.Mutex
	count := 0
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		n := count
		mu.Unlock()

		if n <= failures {
			http.Error(w, `{"message":"upstream error"}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, Envelope(path, responseArray, 1, 1))
	})
}

// SetQuotaHeaders makes every configured response on the path include daily
// quota headers the way api-football reports them.
func (m *MockFootball) SetQuotaHeaders(path, responseArray string, limit, remaining int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("x-ratelimit-requests-limit", fmt.Sprintf("%d", limit))
		w.Header().Set("x-ratelimit-requests-remaining", fmt.Sprintf("%d", remaining))
		fmt.Fprint(w, Envelope(path, responseArray, 1, 1))
	})
}

// Envelope wraps a JSON array in the api-football response envelope.
func Envelope(get, responseArray string, currentPage, totalPages int) string {
	return fmt.Sprintf(`{"get":%q,"results":1,"paging":{"current":%d,"total":%d},"response":%s}`,
		get, currentPage, totalPages, responseArray)
}
