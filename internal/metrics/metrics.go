// Package metrics exposes component counters through a Prometheus registry.
// Components register pull sources; values are read at scrape time.
package metrics

import (
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

type Kind string

const (
	KindCounter Kind = "counter"
	KindGauge   Kind = "gauge"
)

type Sample struct {
	Name   string
	Help   string
	Kind   Kind
	Labels map[string]string
	Value  int64
}

// Source produces the current samples of one component.
type Source func() []Sample

type Registry struct {
	mu       sync.RWMutex
	sources  map[string]Source
	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	r := &Registry{
		sources:  make(map[string]Source),
		registry: prometheus.NewRegistry(),
	}
	r.registry.MustRegister(sourceCollector{owner: r})
	return r
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func (r *Registry) WithRuntimeCollectors() *Registry {
	if r == nil {
		return nil
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Register adds or replaces the source stored under name.
func (r *Registry) Register(name string, source Source) {
	if r == nil || source == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = source
}

// Samples reads every source, ordered by source name.
func (r *Registry) Samples() []Sample {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, r.sources[name])
	}
	r.mu.RUnlock()

	var samples []Sample
	for _, source := range sources {
		samples = append(samples, source()...)
	}
	return samples
}

// WritePrometheus writes the gathered families in the text exposition format.
func (r *Registry) WritePrometheus(writer io.Writer) error {
	if r == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(writer, family); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// sourceCollector is an unchecked collector: samples are only known at
// scrape time, so Describe sends nothing.
type sourceCollector struct {
	owner *Registry
}

func (c sourceCollector) Describe(chan<- *prometheus.Desc) {}

func (c sourceCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sample := range c.owner.Samples() {
		keys := make([]string, 0, len(sample.Labels))
		for key := range sample.Labels {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		values := make([]string, 0, len(keys))
		for _, key := range keys {
			values = append(values, sample.Labels[key])
		}

		help := sample.Help
		if help == "" {
			help = sample.Name
		}
		valueType := prometheus.CounterValue
		if sample.Kind == KindGauge {
			valueType = prometheus.GaugeValue
		}
		desc := prometheus.NewDesc(sample.Name, help, keys, nil)
		metric, err := prometheus.NewConstMetric(desc, valueType, float64(sample.Value), values...)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(desc, err)
			continue
		}
		ch <- metric
	}
}
