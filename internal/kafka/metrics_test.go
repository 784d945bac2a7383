package kafka

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordPublish(t *testing.T) {
	t.Run("records latency with topic and status labels", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		meter := mp.Meter("test")

		metrics, err := NewMetrics(meter)
		if err != nil {
			t.Fatalf("NewMetrics() failed: %v", err)
		}

		ctx := context.Background()
		metrics.RecordPublish(ctx, TopicOrderCreated, 0.01, true)
		metrics.RecordPublish(ctx, TopicOrderCancelled, 0.02, false)

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(ctx, &rm); err != nil {
			t.Fatalf("Failed to collect metrics: %v", err)
		}

		found := false
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name != "kafka_producer_latency_seconds" {
					continue
				}
				found = true

				histogram, ok := m.Data.(metricdata.Histogram[float64])
				if !ok {
					t.Fatal("Expected Histogram[float64] data type")
				}
				if len(histogram.DataPoints) != 2 {
					t.Fatalf("Expected 2 data points, got %d", len(histogram.DataPoints))
				}

				for _, dp := range histogram.DataPoints {
					topic, _ := dp.Attributes.Value(attribute.Key("topic"))
					status, _ := dp.Attributes.Value(attribute.Key("status"))
					switch topic.AsString() {
					case TopicOrderCreated:
						if status.AsString() != "success" {
							t.Errorf("Expected success status for %s", TopicOrderCreated)
						}
					case TopicOrderCancelled:
						if status.AsString() != "error" {
							t.Errorf("Expected error status for %s", TopicOrderCancelled)
						}
					default:
						t.Errorf("Unexpected topic label %q", topic.AsString())
					}
				}
			}
		}

		if !found {
			t.Error("kafka_producer_latency_seconds metric not found")
		}
	})
}
