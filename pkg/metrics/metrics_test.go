package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/metrics"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_ suggest.Recorder   = (*metrics.Collector)(nil)
	_ favorites.Recorder = (*metrics.Collector)(nil)
)

// counterValue returns the value of the counter name with label=value.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	gt.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordRound(suggest.OutcomeSuccess, 120*time.Millisecond)
	c.RecordRound(suggest.OutcomeSuccess, 80*time.Millisecond)
	c.RecordRound(suggest.OutcomeStale, time.Second)
	c.RecordAnalysis(true)
	c.RecordAnalysis(false)
	c.RecordAnalysis(false)
	c.RecordAvatar(suggest.AvatarFailed)
	c.RecordToggle(true)
	c.RecordToggle(false)
	c.RecordToggle(true)

	gt.Equal(t, counterValue(t, reg, "namer_generation_rounds_total", "outcome", "success"), 2.0)
	gt.Equal(t, counterValue(t, reg, "namer_generation_rounds_total", "outcome", "stale"), 1.0)
	gt.Equal(t, counterValue(t, reg, "namer_presence_checks_total", "degraded", "false"), 2.0)
	gt.Equal(t, counterValue(t, reg, "namer_presence_checks_total", "degraded", "true"), 1.0)
	gt.Equal(t, counterValue(t, reg, "namer_avatars_total", "outcome", "failed"), 1.0)
	gt.Equal(t, counterValue(t, reg, "namer_favorite_toggles_total", "action", "saved"), 2.0)
	gt.Equal(t, counterValue(t, reg, "namer_favorite_toggles_total", "action", "removed"), 1.0)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordToggle(true)

	srv := httptest.NewServer(metrics.Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	gt.NoError(t, err)
	defer resp.Body.Close()
	gt.Equal(t, resp.StatusCode, http.StatusOK)

	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err)
	gt.S(t, string(body)).Contains("namer_favorite_toggles_total")
}
