package observability

import (
	"context"
	stderrors "errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	m := &Metrics{}
	var err error
	if m.APIRequestDuration, err = meter.Float64Histogram("cyrus_api_request_duration_seconds"); err != nil {
		t.Fatalf("failed to create duration histogram: %v", err)
	}
	if m.APIRequestCount, err = meter.Int64Counter("cyrus_api_requests_total"); err != nil {
		t.Fatalf("failed to create request counter: %v", err)
	}
	if m.APIErrorCount, err = meter.Int64Counter("cyrus_api_errors_total"); err != nil {
		t.Fatalf("failed to create error counter: %v", err)
	}
	return m, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is not an int64 sum", name)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestTrackAPIOperationRecordsMetrics(t *testing.T) {
	m, reader := newTestMetrics(t)
	om := &ObservabilityManager{}

	if err := m.TrackAPIOperation(context.Background(), "generate", func(ctx context.Context) error {
		return nil
	}, om); err != nil {
		t.Fatalf("TrackAPIOperation failed: %v", err)
	}

	failure := stderrors.New("service unavailable")
	if err := m.TrackAPIOperation(context.Background(), "generate", func(ctx context.Context) error {
		return failure
	}, om); err != failure {
		t.Errorf("TrackAPIOperation error = %v, want the operation's error", err)
	}

	if got := counterTotal(t, reader, "cyrus_api_requests_total"); got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
	if got := counterTotal(t, reader, "cyrus_api_errors_total"); got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}
}

func TestTrackAPIOperationWithoutInstruments(t *testing.T) {
	m := &Metrics{}
	om := &ObservabilityManager{}

	ran := false
	if err := m.TrackAPIOperation(context.Background(), "upload", func(ctx context.Context) error {
		ran = true
		return nil
	}, om); err != nil {
		t.Fatalf("TrackAPIOperation failed: %v", err)
	}
	if !ran {
		t.Error("operation should run even when metrics are not initialized")
	}
}
