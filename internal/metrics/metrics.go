// Package metrics содержит счётчики Prometheus для движка распределения мест.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GrantsTotal количество успешных выдач парковочных мест.
	GrantsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_grants_total",
		Help: "Total number of successful parking space grants.",
	})
	// ReleasesTotal количество успешных возвратов ёмкости.
	ReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_releases_total",
		Help: "Total number of successful parking space releases.",
	})
	// VersionConflictsTotal количество конфликтов версий при записи места.
	VersionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allocation_version_conflicts_total",
		Help: "Total number of optimistic lock conflicts during allocation.",
	})
)
