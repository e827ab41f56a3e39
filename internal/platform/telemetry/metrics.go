package telemetry

import "go.opentelemetry.io/otel/metric"

// Metrics holds the service's metric instruments.
type Metrics struct {
	RequestDuration metric.Float64Histogram
	Requests        metric.Int64Counter
}

// NewMetrics creates all metric instruments from the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.RequestDuration, err = meter.Float64Histogram("tasks.http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.Requests, err = meter.Int64Counter("tasks.http.requests",
		metric.WithDescription("HTTP requests served, by route and status"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
