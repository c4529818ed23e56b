// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/catalog/catalogtest"
	"github.com/ManuGH/mediabrowse/internal/classify"
	"github.com/ManuGH/mediabrowse/internal/health"
	"github.com/ManuGH/mediabrowse/internal/mediasource"
)

func newTestServer(t *testing.T, cfg Config, ready func(context.Context) error) (*Server, *catalogtest.Fake) {
	t.Helper()
	fake := catalogtest.New()
	fake.Libraries = []catalog.Item{{ID: "L1", Name: "Music", Type: classify.NativeCollectionFolder, IsFolder: true}}
	fake.AddItem(catalog.Item{ID: "A1", Name: "Album", Type: classify.NativeMusicAlbum, IsFolder: true})
	fake.SetChildren("A1", catalog.Item{ID: "T1", Name: "Track", Type: classify.NativeAudio})
	fake.Playback["T1"] = &catalog.PlaybackInfo{MediaSources: []catalog.MediaSource{
		{ID: "ms1", Container: "mp3", SupportsDirectStream: true},
	}}
	checks := health.NewManager("test")
	if ready != nil {
		checks.Register(health.CheckFunc("catalog", true, ready))
	}
	return New(cfg, mediasource.New(fake), checks), fake
}

func do(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestBrowse_Root(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	rec := do(t, s.Handler(), "/api/v1/browse")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "library~~library", body["identifier"])
	assert.Equal(t, "Media Library", body["title"])
	assert.Equal(t, false, body["playable"])
	assert.Equal(t, true, body["expandable"])
	children := body["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "directory~~L1", children[0].(map[string]any)["identifier"])
}

func TestBrowse_ContainerPlayback(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	rec := do(t, s.Handler(), "/api/v1/browse?id=album~~A1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["playable"])

	rec = do(t, s.Handler(), "/api/v1/browse?id=album~~A1&container_playback=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["playable"])

	rec = do(t, s.Handler(), "/api/v1/browse?id=album~~A1&container_playback=sometimes")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_parameter", decode[ErrorResponse](t, rec).Error)
}

func TestBrowse_Errors(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	rec := do(t, s.Handler(), "/api/v1/browse?id=nosep", HeaderRequestID, "req-42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "malformed_identifier", resp.Error)
	assert.Equal(t, "req-42", resp.RequestID)

	rec = do(t, s.Handler(), "/api/v1/browse?id=artist~~missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, rec).Error)
}

func TestResolve(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	rec := do(t, s.Handler(), "/api/v1/resolve?id=track~~T1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "http://h/Audio/T1/stream?static=true&MediaSourceId=ms1&api_key=tok", body["url"])
	assert.Equal(t, "audio/mp3", body["mime_type"])

	rec = do(t, s.Handler(), "/api/v1/resolve")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.Handler(), "/api/v1/resolve?id=movie~~nothing")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "no_playback_info", decode[ErrorResponse](t, rec).Error)
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)

	rec := do(t, s.Handler(), "/healthz")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	rec = do(t, s.Handler(), "/healthz", HeaderRequestID, "abc")
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
}

func TestHealthAndReady(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	assert.Equal(t, http.StatusOK, do(t, s.Handler(), "/healthz").Code)
	assert.Equal(t, http.StatusOK, do(t, s.Handler(), "/readyz").Code)

	failing, _ := newTestServer(t, Config{}, func(context.Context) error { return errors.New("catalog down") })
	rec := do(t, failing.Handler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog down")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{}, nil)
	_ = do(t, s.Handler(), "/api/v1/browse")

	rec := do(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mediabrowse_browse_total")
	assert.Contains(t, rec.Body.String(), `route="/api/v1/browse"`)
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimit: 2}, nil)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, s.Handler(), "/api/v1/browse").Code)
	}
	rec := do(t, s.Handler(), "/api/v1/browse")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[ErrorResponse](t, rec).Error)

	assert.Equal(t, http.StatusOK, do(t, s.Handler(), "/healthz").Code, "health is not rate limited")
}

func TestClassifyError(t *testing.T) {
	status, code := classifyError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", code)

	status, _ = classifyError(context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, status)

	status, _ = classifyError(classify.ErrUnknownMediaType)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestRecoverer(t *testing.T) {
	h := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))
	rec := do(t, h, "/x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decode[ErrorResponse](t, rec).Error)
}

func TestServeAndShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, _ := newTestServer(t, Config{ReadTimeout: time.Second, WriteTimeout: time.Second}, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	transport := &http.Transport{}
	client := &http.Client{Transport: transport, Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	transport.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-errCh)
}
