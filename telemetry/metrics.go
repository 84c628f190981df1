package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "petri"

// Metrics exposes the latest step statistics as Prometheus metrics.
// It owns its own registry so several runs can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	population   prometheus.Gauge
	diversity    prometheus.Gauge
	meanFitness  prometheus.Gauge
	meanEnergy   prometheus.Gauge
	nutrientMass prometheus.Gauge
	iteration    prometheus.Gauge

	steps    prometheus.Counter
	births   prometheus.Counter
	deaths   prometheus.Counter
	consumed prometheus.Counter
	recycled prometheus.Counter
}

// NewMetrics creates and registers all collectors. runID is attached as a
// constant label.
func NewMetrics(runID string) *Metrics {
	labels := prometheus.Labels{"run_id": runID}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: name, Help: help, ConstLabels: labels,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: name, Help: help, ConstLabels: labels,
		})
	}

	m := &Metrics{
		registry:     prometheus.NewRegistry(),
		population:   gauge("population", "Number of living organisms."),
		diversity:    gauge("genetic_diversity", "Root mean per-gene population variance."),
		meanFitness:  gauge("mean_fitness", "Mean fitness of living organisms."),
		meanEnergy:   gauge("mean_energy", "Mean energy of living organisms."),
		nutrientMass: gauge("nutrient_mass", "Total nutrient across the grid."),
		iteration:    gauge("iteration", "Number of completed steps."),
		steps:        counter("steps_total", "Steps executed."),
		births:       counter("births_total", "Organisms born."),
		deaths:       counter("deaths_total", "Organisms that starved."),
		consumed:     counter("nutrient_consumed_total", "Nutrient taken up by organisms."),
		recycled:     counter("nutrient_recycled_total", "Nutrient returned by dead organisms."),
	}
	m.registry.MustRegister(
		m.population, m.diversity, m.meanFitness, m.meanEnergy, m.nutrientMass, m.iteration,
		m.steps, m.births, m.deaths, m.consumed, m.recycled,
	)
	return m
}

// Observe updates every metric from one step record.
func (m *Metrics) Observe(r StepRecord) {
	if m == nil {
		return
	}
	m.population.Set(float64(r.Population))
	m.diversity.Set(r.Diversity)
	m.meanFitness.Set(r.MeanFitness)
	m.meanEnergy.Set(r.EnergyMean)
	m.nutrientMass.Set(r.NutrientMass)
	m.iteration.Set(float64(r.Iteration))

	m.steps.Inc()
	m.births.Add(float64(r.Births))
	m.deaths.Add(float64(r.Deaths))
	m.consumed.Add(r.Consumed)
	m.recycled.Add(r.Recycled)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
