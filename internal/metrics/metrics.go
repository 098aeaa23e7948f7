package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealrater_posts_created_total",
		Help: "Posts created, all of which start pending",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealrater_post_status_transitions_total",
		Help: "Post status transitions by source and target status",
	}, []string{"from", "to"})

	RatingsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealrater_ratings_submitted_total",
		Help: "Rating submissions by score for accepted ratings, or by rejection reason",
	}, []string{"outcome"})

	UnitOfWorkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dealrater_unit_of_work_duration_seconds",
		Help:    "Time spent inside a store transaction",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"operation"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealrater_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
)
