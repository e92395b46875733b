/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics registers the per-kind reconcile counters and duration
// histograms through controller-runtime's shared Prometheus registry,
// ported from the Metrics struct and ReconcileMeasurer Drop-guard in
// original_source/operator/src/metrics.rs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

var (
	// durationBuckets matches the Rust original's histogram boundaries for
	// reconcile loops that include a worker Job wait.
	durationBuckets = []float64{.01, .1, .25, .5, 1, 5, 15, 60}

	reconcileTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vynil_reconcile_total",
		Help: "Total reconciliations per kind.",
	}, []string{"kind"})

	reconcileFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vynil_reconcile_failures_total",
		Help: "Total failed reconciliations per kind and error class.",
	}, []string{"kind", "name", "class"})

	reconcileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vynil_reconcile_duration_seconds",
		Help:    "Reconcile loop duration per kind.",
		Buckets: durationBuckets,
	}, []string{"kind"})
)

func init() {
	metrics.Registry.MustRegister(reconcileTotal, reconcileFailuresTotal, reconcileDuration)
}

// Measurer times one reconcile call; call Done when it returns, passing
// the error (if any) so failures are classified and counted. This plays
// the role the Rust original gave to ReconcileMeasurer's Drop impl, made
// explicit since Go has no destructors.
type Measurer struct {
	kind  string
	start time.Time
}

// Start begins timing a reconcile of the given kind.
func Start(kind string) *Measurer {
	reconcileTotal.WithLabelValues(kind).Inc()
	return &Measurer{kind: kind, start: time.Now()}
}

// Done records the elapsed duration and, if err is non-nil, increments
// the failure counter under err's vynilerrors.Class (or "Unknown" if err
// does not carry one).
func (m *Measurer) Done(objName string, err error) {
	reconcileDuration.WithLabelValues(m.kind).Observe(time.Since(m.start).Seconds())
	if err == nil {
		return
	}
	class := string(vynilerrors.ClassOf(err))
	if class == "" {
		class = "Unknown"
	}
	reconcileFailuresTotal.WithLabelValues(m.kind, objName, class).Inc()
}
