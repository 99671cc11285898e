package nameseed

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "nameseed"
)

var (
	upsertCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "name_upsert_total",
			Help:      "subdomain upserts by domain and kind",
		},
		[]string{"domain", "kind"},
	)
	batchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "name_batch_total",
			Help:      "committed batch upserts by domain",
		},
		[]string{"domain"},
	)
	batchItemCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "name_batch_items_total",
			Help:      "items committed inside batch upserts",
		},
		[]string{"domain"},
	)
	quotaRejectedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "quota_rejected_total",
			Help:      "writes rejected by the subdomain quota",
		},
		[]string{"domain"},
	)
)

func init() {
	prometheus.MustRegister(
		upsertCounter,
		batchCounter,
		batchItemCounter,
		quotaRejectedCounter,
	)
}

func metricUpsert(domain string, created bool) {
	kind := "update"
	if created {
		kind = "create"
	}
	upsertCounter.WithLabelValues(domain, kind).Inc()
}

func metricBatch(domain string, items int) {
	batchCounter.WithLabelValues(domain).Inc()
	batchItemCounter.WithLabelValues(domain).Add(float64(items))
}

func metricQuotaRejected(domain string) {
	quotaRejectedCounter.WithLabelValues(domain).Inc()
}
