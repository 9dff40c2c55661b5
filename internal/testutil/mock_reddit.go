package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// MockRedditServer serves canned JSON for the public API paths used in tests.
// Paginated listings hand out "page_N" cursors and honor the limit parameter.
type MockRedditServer struct {
	server       *httptest.Server
	requestCount int32
	rateLimited  int32

	mu          sync.RWMutex
	bodies      map[string]string
	pages       map[string][][]string
	errors      map[string]int
	rateLimits  map[string]int
	retryAfter  string
	requests    []*url.URL
	pathCounter map[string]int
}

// NewMockRedditServer starts an empty mock server. Unknown paths return 404.
func NewMockRedditServer() *MockRedditServer {
	m := &MockRedditServer{
		bodies:      make(map[string]string),
		pages:       make(map[string][][]string),
		errors:      make(map[string]int),
		rateLimits:  make(map[string]int),
		retryAfter:  "0",
		pathCounter: make(map[string]int),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

func (m *MockRedditServer) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	path := r.URL.Path

	m.mu.Lock()
	m.requests = append(m.requests, r.URL)
	m.pathCounter[path]++
	code := m.errors[path]
	limited := false
	if n := m.rateLimits[path]; n > 0 {
		m.rateLimits[path] = n - 1
		limited = true
	}
	body, hasBody := m.bodies[path]
	pages, hasPages := m.pages[path]
	retryAfter := m.retryAfter
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if limited {
		atomic.AddInt32(&m.rateLimited, 1)
		w.Header().Set("Retry-After", retryAfter)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too Many Requests","error":429}`))
		return
	}
	if code > 0 {
		w.WriteHeader(code)
		_, _ = fmt.Fprintf(w, `{"message":%q,"error":%d}`, http.StatusText(code), code)
		return
	}

	switch {
	case hasPages:
		m.writePage(w, r, pages)
	case hasBody:
		_, _ = w.Write([]byte(body))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found","error":404}`))
	}
}

func (m *MockRedditServer) writePage(w http.ResponseWriter, r *http.Request, pages [][]string) {
	index := 0
	if after := r.URL.Query().Get("after"); after != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(after, "page_"))
		if err != nil || n < 0 || n >= len(pages) {
			_, _ = w.Write([]byte(Listing(nil, "")))
			return
		}
		index = n
	}

	children := pages[index]
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit < len(children) {
		children = children[:limit]
	}

	next := ""
	if index+1 < len(pages) {
		next = fmt.Sprintf("page_%d", index+1)
	}
	_, _ = w.Write([]byte(Listing(children, next)))
}

// SetJSON serves body verbatim for path
func (m *MockRedditServer) SetJSON(path, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[path] = body
}

// SetPages serves path as a paginated listing. Each page is a list of child
// envelopes; the last page has a null cursor.
func (m *MockRedditServer) SetPages(path string, pages ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[path] = pages
}

// SetErrorResponse makes path answer with the given status code
func (m *MockRedditServer) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[path] = code
}

// ClearErrorResponse removes an error configured for path
func (m *MockRedditServer) ClearErrorResponse(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errors, path)
}

// RateLimitNext makes the next n requests to path answer 429
func (m *MockRedditServer) RateLimitNext(path string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimits[path] = n
}

// SetRetryAfter sets the Retry-After header sent with 429 responses
func (m *MockRedditServer) SetRetryAfter(seconds string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryAfter = seconds
}

// URL returns the base URL of the mock server
func (m *MockRedditServer) URL() string {
	return m.server.URL
}

// Requests returns the URLs received so far, in arrival order
func (m *MockRedditServer) Requests() []*url.URL {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*url.URL, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastQuery returns the query of the most recent request to path
func (m *MockRedditServer) LastQuery(path string) url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].Path == path {
			return m.requests[i].Query()
		}
	}
	return nil
}

// PathCount returns how many requests reached path
func (m *MockRedditServer) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounter[path]
}

// GetRequestCount returns the total number of requests
func (m *MockRedditServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetRateLimitHits returns the number of 429 responses sent
func (m *MockRedditServer) GetRateLimitHits() int {
	return int(atomic.LoadInt32(&m.rateLimited))
}

// ResetCounters clears request history
func (m *MockRedditServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
	atomic.StoreInt32(&m.rateLimited, 0)
	m.mu.Lock()
	m.requests = nil
	m.pathCounter = make(map[string]int)
	m.mu.Unlock()
}

// Close shuts down the mock server
func (m *MockRedditServer) Close() {
	m.server.Close()
}

// Envelope wraps a data object in {kind, data}
func Envelope(kind, data string) string {
	return fmt.Sprintf(`{"kind":%q,"data":%s}`, kind, data)
}

// Listing renders a listing page. An empty after renders as null.
func Listing(children []string, after string) string {
	cursor := "null"
	if after != "" {
		cursor = strconv.Quote(after)
	}
	return fmt.Sprintf(`{"kind":"Listing","data":{"after":%s,"before":null,"dist":%d,"children":[%s]}}`,
		cursor, len(children), strings.Join(children, ","))
}

// Object renders fields as a JSON object
func Object(fields map[string]interface{}) string {
	data, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	return string(data)
}
