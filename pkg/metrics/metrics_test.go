package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/taxon/pkg/metrics"
)

func TestOperationsCounter(t *testing.T) {
	c := metrics.Operations.WithLabelValues("create", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	metrics.CascadedRows.WithLabelValues("question.subject_type").Add(2)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `taxon_references_cascaded_rows_total{reference="question.subject_type"}`) {
		t.Error("cascaded rows series missing from exposition")
	}
}
