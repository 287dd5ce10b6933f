// FILE: lixenwraith/dlog/compat/prometheus.go
package compat

import (
	"github.com/lixenwraith/dlog"
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = (*Collector)(nil)

// Collector exports facility counters and pool occupancy to Prometheus.
// Values are read from Facility.Stats on every scrape.
type Collector struct {
	facility *dlog.Facility

	emitted     *prometheus.Desc
	written     *prometheus.Desc
	dropped     *prometheus.Desc
	truncated   *prometheus.Desc
	diagnostics *prometheus.Desc
	rotations   *prometheus.Desc
	deleted     *prometheus.Desc
	queued      *prometheus.Desc
	poolInUse   *prometheus.Desc
	poolSize    *prometheus.Desc
}

// NewCollector creates a collector for the facility. Namespace may be empty.
func NewCollector(f *dlog.Facility, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "dlog", name), help, nil, nil)
	}
	return &Collector{
		facility:    f,
		emitted:     desc("records_emitted_total", "Records accepted past the level gate."),
		written:     desc("records_written_total", "Records written to a file or the screen."),
		dropped:     desc("records_dropped_total", "Records lost to pool exhaustion, I/O failure or shutdown."),
		truncated:   desc("records_truncated_total", "Records cut to the message capacity."),
		diagnostics: desc("diagnostics_total", "Internal diagnostics raised."),
		rotations:   desc("rotations_total", "Successful log file rotations."),
		deleted:     desc("archives_deleted_total", "Rotated files removed by archive retention."),
		queued:      desc("queue_depth", "Records waiting for the dispatch consumer."),
		poolInUse:   desc("pool_in_use", "Record buffers currently acquired."),
		poolSize:    desc("pool_capacity", "Fixed number of record buffers."),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.emitted
	ch <- c.written
	ch <- c.dropped
	ch <- c.truncated
	ch <- c.diagnostics
	ch <- c.rotations
	ch <- c.deleted
	ch <- c.queued
	ch <- c.poolInUse
	ch <- c.poolSize
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.facility.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	counter(c.emitted, s.Emitted)
	counter(c.written, s.Written)
	counter(c.dropped, s.Dropped)
	counter(c.truncated, s.Truncated)
	counter(c.diagnostics, s.Diagnostics)
	counter(c.rotations, s.Rotations)
	counter(c.deleted, s.ArchivesDeleted)
	gauge(c.queued, float64(s.Queued))
	gauge(c.poolInUse, float64(s.Pool.InUse))
	gauge(c.poolSize, float64(s.Pool.Capacity))
}
