// Package metrics содержит счётчики Prometheus для премиум-сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEventsTotal считает принятые webhook-события по исходу обработки.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premium_webhook_events_total",
		Help: "Webhook events received, by processing outcome.",
	}, []string{"outcome"})

	// EntitlementChecksTotal считает проверки премиум-статуса по результату.
	// Label result различает granted/denied/unknown — чтобы деградация
	// хранилища в fail-closed false оставалась наблюдаемой.
	EntitlementChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premium_entitlement_checks_total",
		Help: "Entitlement checks served, by tri-state result.",
	}, []string{"result"})

	// StoreWritesTotal считает записи премиум-статуса по результату.
	StoreWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "premium_store_writes_total",
		Help: "Premium status writes to the remote store, by result.",
	}, []string{"result"})
)
