package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	CollectionsSubmitted   prometheus.Counter
	CollectionsSettled     *prometheus.CounterVec
	KilogramsCollected     prometheus.Counter
	SettledValueTotal      *prometheus.CounterVec
	PointsAwardedTotal     prometheus.Counter
	SkippedLineItemsTotal  prometheus.Counter
	SettlementDuration     prometheus.Histogram
	OutboxPending          prometheus.Gauge
	OutboxPublishFailures  prometheus.Counter
	ContributionsProcessed *prometheus.CounterVec
}

// Business is usable before Init; Init only registers it.
var Business = newBusinessMetrics()

func newBusinessMetrics() *BusinessMetrics {
	return &BusinessMetrics{
		CollectionsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wozamali_collections_submitted_total",
			Help: "Collections submitted by collectors",
		}),
		CollectionsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wozamali_collections_settled_total",
			Help: "Collections settled, by outcome (full, partial)",
		}, []string{"outcome"}),
		KilogramsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wozamali_kilograms_collected_total",
			Help: "Kilograms of material settled",
		}),
		SettledValueTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wozamali_settled_value_zar_total",
			Help: "Settled value in ZAR, by destination bucket",
		}, []string{"bucket"}),
		PointsAwardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wozamali_points_awarded_total",
			Help: "Loyalty points awarded",
		}),
		SkippedLineItemsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wozamali_skipped_line_items_total",
			Help: "Line items skipped because their material is unknown",
		}),
		SettlementDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wozamali_settlement_duration_seconds",
			Help:    "Duration of collection settlement including persistence",
			Buckets: prometheus.DefBuckets,
		}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wozamali_outbox_pending",
			Help: "Outbox messages picked up in the last relay pass",
		}),
		OutboxPublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wozamali_outbox_publish_failures_total",
			Help: "Failed outbox publish attempts",
		}),
		ContributionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wozamali_fund_contributions_processed_total",
			Help: "Green Scholar Fund contributions processed, by category",
		}, []string{"category"}),
	}
}

func (b *BusinessMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		b.CollectionsSubmitted,
		b.CollectionsSettled,
		b.KilogramsCollected,
		b.SettledValueTotal,
		b.PointsAwardedTotal,
		b.SkippedLineItemsTotal,
		b.SettlementDuration,
		b.OutboxPending,
		b.OutboxPublishFailures,
		b.ContributionsProcessed,
	}
}

// ObserveSettlement records one settled collection.
func (b *BusinessMetrics) ObserveSettlement(kg, fund, wallet decimal.Decimal, points int64, skipped int) {
	outcome := "full"
	if skipped > 0 {
		outcome = "partial"
	}
	b.CollectionsSettled.WithLabelValues(outcome).Inc()
	b.KilogramsCollected.Add(kg.InexactFloat64())
	b.SettledValueTotal.WithLabelValues("green_scholar_fund").Add(fund.InexactFloat64())
	b.SettledValueTotal.WithLabelValues("user_wallet").Add(wallet.InexactFloat64())
	b.PointsAwardedTotal.Add(float64(points))
	b.SkippedLineItemsTotal.Add(float64(skipped))
}
