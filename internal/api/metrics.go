package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	optimizeJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "energy_optimizer_jobs_total",
		Help: "Optimization jobs by algorithm and outcome.",
	}, []string{"algorithm", "status"})

	optimizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "energy_optimizer_job_duration_seconds",
		Help:    "Wall time of optimization jobs.",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm"})

	recordsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "energy_optimizer_records_ingested_total",
		Help: "Energy records accepted through the API.",
	})

	buildingsRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "energy_optimizer_buildings_registered",
		Help: "Buildings currently registered.",
	})
)
