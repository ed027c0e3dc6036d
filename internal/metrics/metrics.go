// Package metrics exposes jsonmend's Prometheus collectors and an
// observability.Provider wrapper that feeds pipeline metrics into them.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leofalp/jsonmend/providers/observability"
)

var (
	// RepairTotal counts pipeline runs, labeled by status and winning strategy.
	RepairTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonmend_repairs_total",
		Help: "The total number of repair pipeline runs",
	}, []string{"status", "strategy"}) // status: success, failure; strategy: none on failure

	// RepairDuration measures one pipeline run.
	RepairDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jsonmend_repair_duration_seconds",
		Help:    "Time taken by one repair pipeline run",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"status"})

	// HTTPRequests counts API requests by route and response code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonmend_http_requests_total",
		Help: "The total number of HTTP API requests",
	}, []string{"route", "code"})

	// Base64Operations counts encode/decode commands.
	Base64Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonmend_base64_operations_total",
		Help: "The total number of Base64 encode and decode operations",
	}, []string{"operation", "status"}) // status: success, invalid
)

// Provider forwards everything to the wrapped provider and additionally
// records the repair count and duration metrics in Prometheus.
type Provider struct {
	observability.Provider
}

var _ observability.Provider = (*Provider)(nil)

// Wrap returns a Provider around inner.
func Wrap(inner observability.Provider) *Provider {
	return &Provider{Provider: inner}
}

// Counter returns the inner counter, mirrored to RepairTotal for
// observability.MetricRepairCount.
func (p *Provider) Counter(name string) observability.Counter {
	inner := p.Provider.Counter(name)
	if name != observability.MetricRepairCount {
		return inner
	}
	return &counter{
		inner:  inner,
		vec:    RepairTotal,
		labels: []string{observability.AttrStatus, observability.AttrRepairStrategy},
	}
}

// Histogram returns the inner histogram, mirrored to RepairDuration for
// observability.MetricRepairDuration.
func (p *Provider) Histogram(name string) observability.Histogram {
	inner := p.Provider.Histogram(name)
	if name != observability.MetricRepairDuration {
		return inner
	}
	return &histogram{
		inner:  inner,
		vec:    RepairDuration,
		labels: []string{observability.AttrStatus},
	}
}

type counter struct {
	inner  observability.Counter
	vec    *prometheus.CounterVec
	labels []string
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.inner.Add(ctx, value, attrs...)
	c.vec.WithLabelValues(labelValues(c.labels, attrs)...).Add(float64(value))
}

type histogram struct {
	inner  observability.Histogram
	vec    *prometheus.HistogramVec
	labels []string
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.inner.Record(ctx, value, attrs...)
	h.vec.WithLabelValues(labelValues(h.labels, attrs)...).Observe(value)
}

// labelValues picks the attribute values for keys, in order. Missing keys
// yield an empty label.
func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for i, key := range keys {
		for _, attr := range attrs {
			if attr.Key == key {
				values[i] = fmt.Sprint(attr.Value)
			}
		}
	}
	return values
}
