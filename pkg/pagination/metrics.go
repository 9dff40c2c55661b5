package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knewkarma_pages_fetched_total",
		Help: "Listing pages fetched",
	})

	pageItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "knewkarma_page_items_total",
		Help: "Children received across all listing pages",
	})
)
