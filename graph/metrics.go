package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vocab_graph_index_loads_total",
		Help: "Snapshot load attempts by result",
	}, []string{"result"})

	resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vocab_graph_resolve_total",
		Help: "Word resolutions by matching tier",
	}, []string{"tier"})

	neighborhoodSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vocab_graph_neighborhood_nodes",
		Help:    "Nodes returned per neighborhood visualization",
		Buckets: []float64{1, 2, 5, 10, 20, 30},
	})
)
