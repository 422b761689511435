// Package metrics exposes Prometheus counters for import activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every metric of this package. It is separate from the
// default registry so a CLI run can dump exactly these series.
var Registry = prometheus.NewRegistry()

var (
	// ImportsTotal counts finished imports, labeled by entry point and outcome.
	ImportsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gltfimport_imports_total",
			Help: "Total number of imports, by entry point and result",
		},
		[]string{"entry", "result"},
	)

	// ImportErrors counts failed imports by error kind.
	ImportErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gltfimport_import_errors_total",
			Help: "Total number of failed imports, by error kind",
		},
		[]string{"kind"},
	)

	// ResourceBytes counts materialized bytes by resource type and source scheme.
	ResourceBytes = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gltfimport_resource_bytes_total",
			Help: "Bytes materialized for buffers and images, by source scheme",
		},
		[]string{"resource", "scheme"},
	)

	// ImportDuration measures whole-import latency.
	ImportDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gltfimport_import_duration_seconds",
			Help:    "Duration of imports in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"entry"},
	)
)

// WriteTextfile writes the current metrics in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
