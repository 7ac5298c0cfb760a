package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FeedRequests counts candidate feed requests.
	FeedRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amora_feed_requests_total",
		Help: "Number of discovery feed requests served.",
	})

	// SwipesTotal counts recorded swipes by action.
	SwipesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amora_swipes_total",
		Help: "Number of swipes recorded, labeled by action.",
	}, []string{"action"})

	// MatchesFormed counts matches created from mutual likes.
	MatchesFormed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amora_matches_formed_total",
		Help: "Number of matches formed.",
	})

	// MessagesSent counts chat messages stored.
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amora_messages_sent_total",
		Help: "Number of chat messages sent.",
	})
)

func init() {
	prometheus.MustRegister(FeedRequests, SwipesTotal, MatchesFormed, MessagesSent)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
