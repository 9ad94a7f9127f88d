package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPushRecorder_RequiresURL(t *testing.T) {
	_, err := NewPushRecorder("", "job")
	assert.Error(t, err)
}

func TestPushRecorder_Counts(t *testing.T) {
	r, err := NewPushRecorder("http://example.invalid", "")
	require.NoError(t, err)
	assert.Equal(t, "custetl", r.job)

	r.AddRecords(KindRead, 10)
	r.AddRecords(KindRead, 5)
	r.AddRecords(KindSkipped, 2)
	r.ObserveStage("read", 1500*time.Millisecond)

	assert.Equal(t, 15.0, testutil.ToFloat64(r.records.WithLabelValues(KindRead)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.records.WithLabelValues(KindSkipped)))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.stages.WithLabelValues("read")))
}

func TestPushRecorder_Flush(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		mu.Lock()
		method, path, body = req.Method, req.URL.Path, string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r, err := NewPushRecorder(srv.URL, "nightly")
	require.NoError(t, err)
	r.AddRecords(KindLoaded, 3)
	require.NoError(t, r.Flush())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/nightly", path)
	assert.Contains(t, body, "custetl_records_total")
}

func TestPushRecorder_FlushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := NewPushRecorder(srv.URL, "job")
	require.NoError(t, err)
	assert.Error(t, r.Flush())
}

func TestNop(t *testing.T) {
	n := Nop()
	n.AddRecords(KindRead, 1)
	n.ObserveStage("read", time.Second)
	assert.NoError(t, n.Flush())
}
