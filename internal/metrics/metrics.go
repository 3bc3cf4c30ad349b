// Package metrics объявляет метрики Prometheus сервиса биллинга.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpgradeRequests считает запросы на апгрейд по результату.
	UpgradeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_upgrade_requests_total",
		Help: "Upgrade requests by outcome.",
	}, []string{"outcome"})

	// PlanChanges считает применённые смены плана: free или paid.
	PlanChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_plan_changes_total",
		Help: "Committed plan changes by payment path.",
	}, []string{"path"})

	// ChargedCents - суммы, выставленные к оплате через шлюз.
	ChargedCents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "billing_upgrade_charged_cents",
		Help:    "Amounts sent to the payment gateway, in minor units.",
		Buckets: []float64{100, 500, 1000, 2500, 5000, 10000, 25000, 50000},
	})

	// StaleConfirmations считает подтверждения оплаты, отклонённые проверкой конкурентности.
	StaleConfirmations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_stale_confirmations_total",
		Help: "Paid upgrades rejected because the customer's plan changed meanwhile.",
	})

	// ExternalDuration - длительность вызовов внешних систем.
	ExternalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_external_request_duration_seconds",
		Help:    "Duration of calls to the CMS backend and the payment gateway.",
		Buckets: prometheus.DefBuckets,
	}, []string{"target", "operation", "result"})

	// BreakerState - текущее состояние предохранителя (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "billing_circuit_breaker_state",
		Help: "Circuit breaker state per dependency.",
	}, []string{"name"})
)
