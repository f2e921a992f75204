package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

// gathered returns the current value of a counter or gauge sample whose labels
// include the given pairs.
func gathered(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestRecordSelection(t *testing.T) {
	InitRegistry()
	runsBefore := gathered(t, "matchboard_value_bet_selection_runs_total", nil)
	belowBefore := gathered(t, "matchboard_value_bet_exclusions_total", map[string]string{"reason": "below_min_odds"})

	RecordSelection(0.02, 5, 2, map[string]int{"below_min_odds": 3})

	assert.Equal(t, runsBefore+1, gathered(t, "matchboard_value_bet_selection_runs_total", nil))
	assert.Equal(t, float64(5), gathered(t, "matchboard_value_bet_candidates", nil))
	assert.Equal(t, belowBefore+3, gathered(t, "matchboard_value_bet_exclusions_total", map[string]string{"reason": "below_min_odds"}))
}

func TestRecordCacheHit(t *testing.T) {
	InitRegistry()
	before := gathered(t, "matchboard_value_bet_cache_hits_total", nil)
	RecordCacheHit()
	assert.Equal(t, before+1, gathered(t, "matchboard_value_bet_cache_hits_total", nil))
}

func TestRecordHTTPRequest(t *testing.T) {
	InitRegistry()
	assert.NotPanics(t, func() {
		RecordHTTPRequest("/value-bets", "200", 0.01)
		RecordRateLimited()
		UpdateFeedSubscribers(2)
	})
	assert.Equal(t, float64(2), gathered(t, "matchboard_value_bet_feed_subscribers", nil))
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordCacheHit()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "matchboard_value_bet_cache_hits_total"))
}

func BenchmarkRecordHTTPRequest(b *testing.B) {
	InitRegistry()
	for i := 0; i < b.N; i++ {
		RecordHTTPRequest("/value-bets", "200", 0.01)
	}
}
