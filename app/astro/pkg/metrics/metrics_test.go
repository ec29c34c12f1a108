package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Counters(t *testing.T) {
	m := NewManager()

	m.ObserveUpstream(UpstreamLLM, time.Now(), nil)
	m.ObserveUpstream(UpstreamLLM, time.Now(), errors.New("boom"))
	m.ObserveUpstream(UpstreamChart, time.Now(), nil)
	m.ObserveDecode(nil)
	m.ObserveDecode(errors.New("bad"))
	m.ObserveDecode(errors.New("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues(UpstreamLLM, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues(UpstreamLLM, "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reportDecode.WithLabelValues("error")))
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.ObserveUpstream(UpstreamLLM, time.Now(), nil)
		m.ObserveDecode(nil)
	})
}

func TestManager_Handler(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.ObserveDecode(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_report_decode_total{outcome="ok"} 1`))
}
