package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/codec"
	"github.com/observe-l/fecchan/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := codec.New(codec.Options{Metrics: metrics.New(reg)})
	return NewServer(svc, reg, nil, cfg).Router()
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, setupTestServer(t, Config{}), http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := setupTestServer(t, Config{})
	w := do(t, h, http.MethodPost, "/api/v1/encode?method=rep&factor=3", []byte{0xAC})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	frame := w.Body.Bytes()
	assert.Len(t, frame, 21)

	bits := fec.BytesToBits(frame)
	bits[fecframe.HeaderBits] ^= 1
	w = do(t, h, http.MethodPost, "/api/v1/decode", fec.BitsToBytes(bits))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []byte{0xAC}, w.Body.Bytes())
	assert.Equal(t, "repetition", w.Header().Get(HeaderMethod))
	assert.Equal(t, "3", w.Header().Get(HeaderFactor))
	assert.Equal(t, "8", w.Header().Get(HeaderSourceBits))
	assert.Equal(t, "false", w.Header().Get(HeaderTruncated))
}

func TestLinearDecodeReportsCorrections(t *testing.T) {
	h := setupTestServer(t, Config{})
	w := do(t, h, http.MethodPost, "/api/v1/encode?method=lin&factor=3", []byte("ab"))
	require.Equal(t, http.StatusOK, w.Code)
	bits := fec.BytesToBits(w.Body.Bytes())
	bits[fecframe.HeaderBits+1] ^= 1
	bits[fecframe.HeaderBits+7] ^= 1

	w = do(t, h, http.MethodPost, "/api/v1/decode", fec.BitsToBytes(bits))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("ab"), w.Body.Bytes())
	assert.Equal(t, "2", w.Header().Get(HeaderCorrected))
	assert.Equal(t, "0", w.Header().Get(HeaderUncorrectable))
}

func TestErrorStatuses(t *testing.T) {
	h := setupTestServer(t, Config{MaxFrameBytes: 64})
	tests := []struct {
		name   string
		target string
		body   []byte
		want   int
	}{
		{"unknown method", "/api/v1/encode?method=turbo&factor=3", []byte{1}, http.StatusBadRequest},
		{"missing factor", "/api/v1/encode?method=rep", []byte{1}, http.StatusBadRequest},
		{"bad repetition factor", "/api/v1/encode?method=rep&factor=4", []byte{1}, http.StatusBadRequest},
		{"bad linear factor", "/api/v1/encode?method=lin&factor=6", []byte{1}, http.StatusBadRequest},
		{"short frame", "/api/v1/decode", []byte{1, 2, 3}, http.StatusUnprocessableEntity},
		{"too large", "/api/v1/decode", make([]byte, 65), http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, tc.want, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupTestServer(t, Config{})
	do(t, h, http.MethodPost, "/api/v1/encode?method=lin&factor=4", []byte("metrics"))
	w := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fecchan_frames_encoded_total{method="linear"} 1`)
}

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewServer(codec.New(codec.Options{}), nil, nil, Config{MaxConnections: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/v1/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
