package preprocessing

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(
		loadedNodes,
		loadedEdges,
		loadFailures,
	)
}

var (
	loadedNodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graph_loaded_nodes",
		Help: "number of stations in the loaded graph",
	})
	loadedEdges = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graph_loaded_edges",
		Help: "number of connections in the loaded graph",
	})
	loadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "graph_load_failures_total",
		Help: "failed attempts to load the graph",
	})
)
