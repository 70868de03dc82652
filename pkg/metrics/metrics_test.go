package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New("test")

	m.RecordCartMutation("add")
	m.RecordCartMutation("add")
	m.RecordCheckout("success", 0.2)
	m.SetActiveSessions(3)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CartMutationsTotal.WithLabelValues("add")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CheckoutsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.ActiveSessions), 0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("test")
	m.RecordHTTPRequest("GET", "/api/v1/cart", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_test_http_requests_total")
}
