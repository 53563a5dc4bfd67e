package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIngest_Counters(t *testing.T) {
	m := New()
	m.ObserveRun(true, 2*time.Second)
	m.ObserveRun(false, time.Second)
	m.ObserveFeed("ok", 3)
	m.ObserveFeed("ok", 0)
	m.ObserveFeed("no_feed", 0)
	m.SkippedTick()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += "/" + label.GetValue()
			}
			if c := metric.GetCounter(); c != nil {
				values[key] = c.GetValue()
			}
			if h := metric.GetHistogram(); h != nil {
				values[key] = float64(h.GetSampleCount())
			}
		}
	}

	require.Equal(t, 1.0, values["feedpulse_ingest_runs_total/ok"])
	require.Equal(t, 1.0, values["feedpulse_ingest_runs_total/failed"])
	require.Equal(t, 2.0, values["feedpulse_ingest_feed_results_total/ok"])
	require.Equal(t, 1.0, values["feedpulse_ingest_feed_results_total/no_feed"])
	require.Equal(t, 3.0, values["feedpulse_ingest_posts_inserted_total"])
	require.Equal(t, 1.0, values["feedpulse_scheduler_skipped_ticks_total"])
	require.Equal(t, 2.0, values["feedpulse_ingest_run_duration_seconds"])
}

func TestIngest_NilIsNoop(t *testing.T) {
	var m *Ingest
	require.NotPanics(t, func() {
		m.ObserveRun(true, time.Second)
		m.ObserveFeed("ok", 1)
		m.SkippedTick()
	})
}

func TestIngest_Handler(t *testing.T) {
	m := New()
	m.ObserveFeed("ok", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, "feedpulse_ingest_posts_inserted_total 2"))
	require.Contains(t, body, `feedpulse_ingest_feed_results_total{status="ok"} 1`)
}
