// SPDX-License-Identifier: EPL-2.0

package observe

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider is an in-process meter provider read on demand. There is no
// exporter; Summary collects the current values.
type Provider struct {
	*sdkmetric.MeterProvider
	reader *sdkmetric.ManualReader
}

// InitProvider creates a Provider for serviceName and installs it as the
// global meter provider. Call Shutdown when done.
func InitProvider(serviceName string) *Provider {
	if serviceName == "" {
		serviceName = "ldsp"
	}
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetMeterProvider(mp)
	return &Provider{MeterProvider: mp, reader: reader}
}

// Point is one collected data point.
type Point struct {
	Name  string
	Attrs string
	Value int64
}

// Summary collects every integer sum and gauge, sorted by name.
func (p *Provider) Summary(ctx context.Context) ([]Point, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("observe: collect: %w", err)
	}
	return Flatten(rm), nil
}

// Flatten turns collected metrics into points. Histograms and float
// instruments are skipped.
func Flatten(rm metricdata.ResourceMetrics) []Point {
	var out []Point
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out = append(out, Point{Name: m.Name, Attrs: dp.Attributes.Encoded(attribute.DefaultEncoder()), Value: dp.Value})
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					out = append(out, Point{Name: m.Name, Attrs: dp.Attributes.Encoded(attribute.DefaultEncoder()), Value: dp.Value})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Attrs < out[j].Attrs
	})
	return out
}
