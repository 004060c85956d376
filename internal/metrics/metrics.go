package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal    *prometheus.CounterVec
	votesCastTotal       prometheus.Counter
	commentsCreatedTotal prometheus.Counter
	registerOnce         sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voteboard",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the API.",
		}, []string{"method", "path", "status"})

		votesCastTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "voteboard",
			Name:      "votes_cast_total",
			Help:      "Total ballots cast, including vote changes.",
		})

		commentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "voteboard",
			Name:      "comments_created_total",
			Help:      "Total comments created.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncVoteCast() {
	if votesCastTotal == nil {
		return
	}
	votesCastTotal.Inc()
}

func IncCommentCreated() {
	if commentsCreatedTotal == nil {
		return
	}
	commentsCreatedTotal.Inc()
}
