// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package jellyfin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/ManuGH/mediabrowse/internal/catalog"
)

// Mock server endpoint keys for SetFailures and SetDelay.
const (
	EndpointItem         = "item"
	EndpointItems        = "items"
	EndpointPlaybackInfo = "playback_info"
	EndpointPing         = "ping"
)

// RecordedRequest is one request seen by the mock server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Token  string
	Body   []byte
}

// MockServer provides a configurable Jellyfin mock server for testing.
type MockServer struct {
	*httptest.Server

	mu        sync.RWMutex
	token     string
	userID    string
	items     map[string]catalog.Item
	children  map[string][]catalog.Item
	libraries []catalog.Item
	playback  map[string]json.RawMessage
	delay     map[string]time.Duration
	failures  map[string]int // failures before success per endpoint
	status    map[string]int // status used when failing
	requests  []RecordedRequest
}

// NewMockServer starts a mock server that accepts token for userID.
func NewMockServer(token, userID string) *MockServer {
	m := &MockServer{
		token:    token,
		userID:   userID,
		items:    make(map[string]catalog.Item),
		children: make(map[string][]catalog.Item),
		playback: make(map[string]json.RawMessage),
		delay:    make(map[string]time.Duration),
		failures: make(map[string]int),
		status:   make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /Users/{uid}/Items/{id}", m.handleItem)
	mux.HandleFunc("GET /Users/{uid}/Items", m.handleItems)
	mux.HandleFunc("POST /Items/{id}/PlaybackInfo", m.handlePlaybackInfo)
	mux.HandleFunc("GET /System/Ping", m.handlePing)

	m.Server = httptest.NewServer(mux)
	return m
}

// AddItem registers an item and appends it to parentID's children. An empty
// parentID makes it a top-level library.
func (m *MockServer) AddItem(parentID string, item catalog.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	if parentID == "" {
		m.libraries = append(m.libraries, item)
		return
	}
	m.children[parentID] = append(m.children[parentID], item)
}

// SetPlaybackInfo sets the raw JSON answer for id's PlaybackInfo call.
func (m *MockServer) SetPlaybackInfo(id string, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playback[id] = json.RawMessage(raw)
}

// SetFailures makes endpoint answer status for the next n requests.
func (m *MockServer) SetFailures(endpoint string, n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[endpoint] = n
	m.status[endpoint] = status
}

// SetDelay delays every answer of endpoint.
func (m *MockServer) SetDelay(endpoint string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay[endpoint] = d
}

// Requests returns a copy of the recorded requests.
func (m *MockServer) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestCount returns how many requests hit path.
func (m *MockServer) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// prelude records the request and applies auth, delay and injected failures.
// It reports whether the handler should continue.
func (m *MockServer) prelude(w http.ResponseWriter, r *http.Request, endpoint string) bool {
	body, _ := io.ReadAll(r.Body)
	query := make(map[string]string)
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  query,
		Token:  r.Header.Get(TokenHeader),
		Body:   body,
	})
	delay := m.delay[endpoint]
	failStatus := 0
	if m.failures[endpoint] > 0 {
		m.failures[endpoint]--
		failStatus = m.status[endpoint]
	}
	token := m.token
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return false
		}
	}
	if failStatus != 0 {
		http.Error(w, http.StatusText(failStatus), failStatus)
		return false
	}
	if token != "" && r.Header.Get(TokenHeader) != token {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func (m *MockServer) userOK(w http.ResponseWriter, r *http.Request) bool {
	if r.PathValue("uid") != m.userID {
		http.Error(w, "user not found", http.StatusNotFound)
		return false
	}
	return true
}

func (m *MockServer) handleItem(w http.ResponseWriter, r *http.Request) {
	if !m.prelude(w, r, EndpointItem) || !m.userOK(w, r) {
		return
	}
	m.mu.RLock()
	item, ok := m.items[r.PathValue("id")]
	m.mu.RUnlock()
	if !ok {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, item)
}

func (m *MockServer) handleItems(w http.ResponseWriter, r *http.Request) {
	if !m.prelude(w, r, EndpointItems) || !m.userOK(w, r) {
		return
	}
	q := r.URL.Query()

	m.mu.RLock()
	var out []catalog.Item
	switch {
	case q.Get("Ids") != "":
		if item, ok := m.items[q.Get("Ids")]; ok {
			out = []catalog.Item{item}
		}
	case q.Get("ParentId") != "":
		out = append(out, m.children[q.Get("ParentId")]...)
	default:
		out = append(out, m.libraries...)
	}
	m.mu.RUnlock()

	if out == nil {
		out = []catalog.Item{}
	}
	writeJSON(w, itemsResponse{Items: out, TotalRecordCount: len(out)})
}

func (m *MockServer) handlePlaybackInfo(w http.ResponseWriter, r *http.Request) {
	if !m.prelude(w, r, EndpointPlaybackInfo) {
		return
	}
	m.mu.RLock()
	raw, ok := m.playback[r.PathValue("id")]
	m.mu.RUnlock()
	if !ok {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (m *MockServer) handlePing(w http.ResponseWriter, r *http.Request) {
	if !m.prelude(w, r, EndpointPing) {
		return
	}
	writeJSON(w, "Jellyfin Server")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
