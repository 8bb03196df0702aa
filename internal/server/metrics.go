package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vegasq/listview/view"
)

type metrics struct {
	materializations *prometheus.CounterVec
	duration         prometheus.Histogram
	fetchedRows      prometheus.Counter
	fetchFailures    prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		materializations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listview_materializations_total",
			Help: "Total number of materialized views by mode",
		}, []string{"mode"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "listview_materialize_duration_seconds",
			Help:    "Time taken to fetch and materialize a view in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		fetchedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listview_fetched_rows_total",
			Help: "Total number of source rows fetched for materialization",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listview_fetch_failures_total",
			Help: "Total number of failed source list fetches",
		}),
	}
}

// register adds the collectors to reg. A collector already registered by
// another server is adopted, so every server sharing reg records into the
// series reg exposes.
func (m *metrics) register(reg prometheus.Registerer) error {
	var err error
	if m.materializations, err = registerOrExisting(reg, m.materializations); err != nil {
		return err
	}
	if m.duration, err = registerOrExisting(reg, m.duration); err != nil {
		return err
	}
	if m.fetchedRows, err = registerOrExisting(reg, m.fetchedRows); err != nil {
		return err
	}
	if m.fetchFailures, err = registerOrExisting(reg, m.fetchFailures); err != nil {
		return err
	}
	return nil
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		return c, err
	}
	existing, ok := already.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("metric already registered with a different type: %w", err)
	}
	return existing, nil
}

func (m *metrics) observeMaterialize(mode view.Mode, snap view.Snapshot, start time.Time) {
	rows := 0
	for _, list := range snap.Rows {
		rows += len(list)
	}
	m.fetchedRows.Add(float64(rows))
	m.materializations.WithLabelValues(mode.String()).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}
