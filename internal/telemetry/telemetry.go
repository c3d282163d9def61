// Package telemetry wires OpenTelemetry metrics with a Prometheus exporter
// and provides the instruments used by the clipboard monitor.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry holds all telemetry instruments and providers. The zero value
// (telemetry disabled) is valid; every method is a no-op on it.
type Telemetry struct {
	meterProvider metric.MeterProvider
	tracer        trace.Tracer
	meter         metric.Meter
	exporter      *prometheus.Exporter

	clipboardPolls    metric.Int64Counter
	classifications   metric.Int64Counter
	submissionsTotal  metric.Int64Counter
	torrentsInFlight  metric.Int64UpDownCounter
	pollCycles        metric.Int64Counter
	unrestrictsTotal  metric.Int64Counter
	linksFlushed      metric.Int64Counter
	clientErrorsTotal metric.Int64Counter
}

// Config holds telemetry configuration.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
}

// New creates a new telemetry instance.
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(10 * time.Second)); err != nil {
		return nil, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	t := &Telemetry{
		meterProvider: meterProvider,
		tracer:        otel.Tracer(cfg.ServiceName),
		meter:         otel.Meter(cfg.ServiceName),
		exporter:      exporter,
	}

	if err := t.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return t, nil
}

// RecordClipboardPoll records one clipboard read with its outcome
// ("changed", "unchanged" or "error").
func (t *Telemetry) RecordClipboardPoll(outcome string) {
	if t.clipboardPolls != nil {
		t.clipboardPolls.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("outcome", outcome)),
		)
	}
}

// RecordClassification records the classification of one changed clipboard
// value ("magnet", "hoster" or "ignored").
func (t *Telemetry) RecordClassification(kind string) {
	if t.classifications != nil {
		t.classifications.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("kind", kind)),
		)
	}
}

// RecordSubmission records one magnet submission attempt by result
// ("submitted", "already_queued" or "error").
func (t *Telemetry) RecordSubmission(result string) {
	if t.submissionsTotal != nil {
		t.submissionsTotal.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("result", result)),
		)
	}
}

// AddTorrentsInFlight adjusts the in-flight torrent gauge.
func (t *Telemetry) AddTorrentsInFlight(delta int64) {
	if t.torrentsInFlight != nil {
		t.torrentsInFlight.Add(context.Background(), delta)
	}
}

// RecordPollCycle records one completed monitor cycle.
func (t *Telemetry) RecordPollCycle() {
	if t.pollCycles != nil {
		t.pollCycles.Add(context.Background(), 1)
	}
}

// RecordUnrestrict records one unrestrict attempt by status
// ("success" or "error").
func (t *Telemetry) RecordUnrestrict(status string) {
	if t.unrestrictsTotal != nil {
		t.unrestrictsTotal.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("status", status)),
		)
	}
}

// RecordLinksFlushed records the number of links written by one flush.
func (t *Telemetry) RecordLinksFlushed(count int64) {
	if t.linksFlushed != nil && count > 0 {
		t.linksFlushed.Add(context.Background(), count)
	}
}

// RecordClientError records a failed debrid client operation.
func (t *Telemetry) RecordClientError(operation string) {
	if t.clientErrorsTotal != nil {
		t.clientErrorsTotal.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("operation", operation)),
		)
	}
}

// Handler returns the HTTP handler for the metrics endpoint.
func (t *Telemetry) Handler() http.Handler {
	if t.exporter == nil {
		return http.NotFoundHandler()
	}

	return promhttp.Handler()
}

// Shutdown gracefully shuts down the telemetry system.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if mp, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		return mp.Shutdown(ctx)
	}

	return nil
}

func (t *Telemetry) initializeMetrics() error {
	var err error

	t.clipboardPolls, err = t.meter.Int64Counter(
		"clipboard_polls_total",
		metric.WithDescription("Total number of clipboard reads by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create clipboard_polls_total counter: %w", err)
	}

	t.classifications, err = t.meter.Int64Counter(
		"classifications_total",
		metric.WithDescription("Total number of classified clipboard changes by kind"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create classifications_total counter: %w", err)
	}

	t.submissionsTotal, err = t.meter.Int64Counter(
		"torrent_submissions_total",
		metric.WithDescription("Total number of magnet submission attempts by result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create torrent_submissions_total counter: %w", err)
	}

	t.torrentsInFlight, err = t.meter.Int64UpDownCounter(
		"torrents_in_flight",
		metric.WithDescription("Number of torrents currently tracked for completion"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create torrents_in_flight counter: %w", err)
	}

	t.pollCycles, err = t.meter.Int64Counter(
		"poll_cycles_total",
		metric.WithDescription("Total number of completed monitor cycles"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create poll_cycles_total counter: %w", err)
	}

	t.unrestrictsTotal, err = t.meter.Int64Counter(
		"unrestricts_total",
		metric.WithDescription("Total number of unrestrict attempts by status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create unrestricts_total counter: %w", err)
	}

	t.linksFlushed, err = t.meter.Int64Counter(
		"links_flushed_total",
		metric.WithDescription("Total number of direct-download links written to the output"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create links_flushed_total counter: %w", err)
	}

	t.clientErrorsTotal, err = t.meter.Int64Counter(
		"client_errors_total",
		metric.WithDescription("Total number of failed debrid client operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create client_errors_total counter: %w", err)
	}

	return nil
}
