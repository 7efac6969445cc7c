package job

import "github.com/prometheus/client_golang/prometheus"

var (
	jobsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hyperprophet_jobs_created_total",
			Help: "Total number of remote forecast jobs created.",
		},
	)

	jobsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperprophet_jobs_finished_total",
			Help: "Total number of remote forecast jobs reaching a terminal status.",
		},
		[]string{"status"},
	)

	jobPolls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hyperprophet_job_polls_total",
			Help: "Total number of job status polls issued.",
		},
	)

	jobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hyperprophet_job_duration_seconds",
			Help:    "Duration from job creation to terminal status, in seconds.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(jobsCreated)
	prometheus.MustRegister(jobsFinished)
	prometheus.MustRegister(jobPolls)
	prometheus.MustRegister(jobDuration)

	// pre-initialize terminal label values so they report 0 before the
	// first observation
	for _, s := range []Status{StatusSuccess, StatusFailed, StatusAborted} {
		jobsFinished.WithLabelValues(string(s))
	}
}
