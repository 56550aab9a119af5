package lru

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bpowers/sized-lru/sizedlru"
)

// StatsSource is implemented by Cache, ShardedCache and sizedlru.LRU.
type StatsSource interface {
	Stats() sizedlru.Stats
}

// Collector exports a cache's Stats as Prometheus metrics. Values are read
// on every scrape.
type Collector struct {
	src StatsSource

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	sets       *prometheus.Desc
	evictions  *prometheus.Desc
	rejections *prometheus.Desc
	entries    *prometheus.Desc
	capacity   *prometheus.Desc
	remaining  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for src. The cache label distinguishes
// several caches registered under the same namespace.
func NewCollector(namespace, cache string, src StatsSource) *Collector {
	labels := prometheus.Labels{"cache": cache}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "lru", name), help, nil, labels)
	}
	return &Collector{
		src:        src,
		hits:       desc("hits_total", "Number of Get calls that found their key"),
		misses:     desc("misses_total", "Number of Get calls that missed"),
		sets:       desc("sets_total", "Number of successful Set calls"),
		evictions:  desc("evictions_total", "Number of entries evicted to make room"),
		rejections: desc("rejections_total", "Number of Set calls rejected as larger than the capacity"),
		entries:    desc("entries", "Number of resident entries"),
		capacity:   desc("capacity_bytes", "Total byte budget"),
		remaining:  desc("remaining_bytes", "Unused part of the byte budget"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.sets
	ch <- c.evictions
	ch <- c.rejections
	ch <- c.entries
	ch <- c.capacity
	ch <- c.remaining
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(s.Sets))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.rejections, prometheus.CounterValue, float64(s.Rejections))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.remaining, prometheus.GaugeValue, float64(s.Remaining))
}
