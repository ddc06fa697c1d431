package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics turns the progress event stream into run metrics.
// The prometheus exporter suffixes the counters with _total on scrape.
type Metrics struct {
	iterations     metric.Int64Counter
	delaySeconds   metric.Float64Counter
	commandSeconds metric.Float64Histogram
}

// NewMetrics registers the run instruments on the global meter provider
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(TracerName)

	iterations, err := meter.Int64Counter("task_executor_iterations",
		metric.WithDescription("Scenario iterations by status"))
	if err != nil {
		return nil, err
	}
	delaySeconds, err := meter.Float64Counter("task_executor_delay_seconds",
		metric.WithDescription("Time spent pausing between iterations"))
	if err != nil {
		return nil, err
	}
	commandSeconds, err := meter.Float64Histogram("task_executor_command_duration_seconds",
		metric.WithDescription("Wall clock duration of the scenario commands"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		iterations:     iterations,
		delaySeconds:   delaySeconds,
		commandSeconds: commandSeconds,
	}, nil
}

// OnEvent records the event into the instruments, it never fails the run
func (m *Metrics) OnEvent(eventDetails types.EventDetails) {
	ctx := context.Background()
	scenario := attribute.String("scenario", eventDetails.ScenarioName)

	switch eventDetails.Reason {
	case types.IterationCompleted:
		m.iterations.Add(ctx, 1, metric.WithAttributes(scenario, attribute.String("status", "succeeded")))
		m.commandSeconds.Record(ctx, eventDetails.Duration.Seconds(), metric.WithAttributes(scenario))
		if eventDetails.Delay > 0 {
			m.delaySeconds.Add(ctx, eventDetails.Delay.Seconds(), metric.WithAttributes(scenario))
		}
	case types.CommandFailed:
		m.iterations.Add(ctx, 1, metric.WithAttributes(scenario, attribute.String("status", "failed")))
	}
}

// ServeMetrics exposes the prometheus registry on the given address
func ServeMetrics(address string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: address, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("unable to serve the metrics endpoint on %v, err: %v", address, err)
		}
	}()
	return server
}
