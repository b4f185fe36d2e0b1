package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHandlerExposesCollectors verifies registered metrics appear on the scrape endpoint.
func TestHandlerExposesCollectors(t *testing.T) {
	m := NewTest()
	m.CounterRequests.WithLabelValues("GET", "200").Inc()
	m.CounterWorkoutsCreated.Add(3)
	m.GaugeActiveSessions.Set(2)
	m.HistRequestDuration.WithLabelValues("GET").Observe(0.02)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`fittrack_http_requests_total{method="GET",status="200"} 1`,
		"fittrack_workouts_created_total 3",
		"fittrack_timer_sessions_active 2",
		"fittrack_http_request_duration_seconds_count",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

// TestInstancesAreIndependent verifies two instances can coexist without duplicate registration.
func TestInstancesAreIndependent(t *testing.T) {
	a := NewTest()
	b := New()
	a.CounterWorkoutsCreated.Inc()
	if a.Registry() == b.Registry() {
		t.Fatal("instances share a registry")
	}
}
