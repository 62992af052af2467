package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/assettrack"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Login metrics
	LoginSuccessTotal metric.Int64Counter
	LoginFailureTotal metric.Int64Counter

	// Asset operation metrics
	AssetsCreatedTotal  metric.Int64Counter
	AssetsUpdatedTotal  metric.Int64Counter
	AssetsDeletedTotal  metric.Int64Counter
	AssetConflictsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.LoginSuccessTotal, _ = meter.Int64Counter(
		"assettrack.logins.success.total",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)

	m.LoginFailureTotal, _ = meter.Int64Counter(
		"assettrack.logins.failure.total",
		metric.WithDescription("Total number of rejected login attempts"),
		metric.WithUnit("{login}"),
	)

	m.AssetsCreatedTotal, _ = meter.Int64Counter(
		"assettrack.assets.created.total",
		metric.WithDescription("Total number of assets created"),
		metric.WithUnit("{asset}"),
	)

	m.AssetsUpdatedTotal, _ = meter.Int64Counter(
		"assettrack.assets.updated.total",
		metric.WithDescription("Total number of assets updated"),
		metric.WithUnit("{asset}"),
	)

	m.AssetsDeletedTotal, _ = meter.Int64Counter(
		"assettrack.assets.deleted.total",
		metric.WithDescription("Total number of assets deleted"),
		metric.WithUnit("{asset}"),
	)

	m.AssetConflictsTotal, _ = meter.Int64Counter(
		"assettrack.assets.conflicts.total",
		metric.WithDescription("Total number of serial number conflicts rejected"),
		metric.WithUnit("{conflict}"),
	)

	return m
}
