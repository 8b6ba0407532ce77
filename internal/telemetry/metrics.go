package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts persisted notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notify_hub",
		Name:      "notifications_created_total",
		Help:      "Notifications persisted, by type.",
	}, []string{"type"})

	// PushesTotal counts live push outcomes: delivered, offline, dropped.
	PushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notify_hub",
		Name:      "pushes_total",
		Help:      "Live push attempts by outcome.",
	}, []string{"outcome"})

	// ActiveSessions tracks open websocket sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "notify_hub",
		Name:      "active_sessions",
		Help:      "Currently open websocket sessions.",
	})
)
