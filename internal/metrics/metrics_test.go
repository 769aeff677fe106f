package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveredOutcomes(t *testing.T) {
	r := New()
	r.Delivered("chat", nil)
	r.Delivered("chat", nil)
	r.Delivered("email", errors.New("smtp down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Deliveries.WithLabelValues("chat", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Deliveries.WithLabelValues("email", "error")))
}

func TestRunFinished(t *testing.T) {
	r := New()
	start := time.Unix(1700000000, 0)
	r.RunFinished(start, start.Add(3*time.Second))
	assert.Equal(t, float64(1700000003), testutil.ToFloat64(r.LastRun))
}

func TestPush(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New()
	r.HoldingsEvaluated.Add(3)
	require.NoError(t, r.Push(srv.URL, "stockbot"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/stockbot", path)

	assert.NoError(t, r.Push("", "stockbot"))
}
