// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BidsAccepted counts accepted bids.
	BidsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_bids_accepted_total",
		Help: "Total number of accepted bids",
	})

	// BidsRejected counts rejected bids by rejection reason.
	BidsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_bids_rejected_total",
		Help: "Total number of rejected bids by reason",
	}, []string{"reason"})

	// BidConflictRetries counts optimistic-lock retries during bid acceptance.
	BidConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_bid_conflict_retries_total",
		Help: "Total number of bid transactions retried after a version conflict",
	})

	// ListingsCreated counts created listings.
	ListingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_listings_created_total",
		Help: "Total number of listings created",
	})

	// ListingsClosed counts closed auctions.
	ListingsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_listings_closed_total",
		Help: "Total number of auctions closed",
	})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gavel_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
