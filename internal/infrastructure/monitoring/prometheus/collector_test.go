package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountsStructuresAndResults(t *testing.T) {
	c := NewCollector("moldesc_test")

	c.CountRun()
	c.ObserveStructure(5 * time.Millisecond)
	c.ObserveStructure(2 * time.Millisecond)
	c.CountResult("value")
	c.CountResult("value")
	c.CountResult("missing")
	c.CountResult("error")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.structuresTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.resultsTotal.WithLabelValues("value")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resultsTotal.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.resultsTotal.WithLabelValues("error")))
}

func TestCollector_PrivateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = NewCollector("moldesc_a")
		_ = NewCollector("moldesc_a")
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("moldesc_http")
	c.ObserveStructure(time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "moldesc_http_structures_evaluated_total 1")
}
