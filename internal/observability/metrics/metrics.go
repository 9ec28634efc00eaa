package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_dashboard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hr_dashboard_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	leaveTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_dashboard_leave_transitions_total",
		Help: "Leave request status transitions by target status and result",
	}, []string{"status", "result"})

	balanceDeductions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_dashboard_leave_balance_deductions_total",
		Help: "Leave balance deduction attempts by result",
	}, []string{"result"})

	outboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_dashboard_outbox_events_total",
		Help: "Outbox events relayed to Kafka by event type and result",
	}, []string{"event_type", "result"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_dashboard_notifications_total",
		Help: "Notifications emitted by kind",
	}, []string{"kind"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveLeaveTransition(status, result string) {
	leaveTransitions.WithLabelValues(status, result).Inc()
}

func ObserveBalanceDeduction(result string) {
	balanceDeductions.WithLabelValues(result).Inc()
}

func ObserveOutboxPublish(eventType, result string) {
	outboxPublished.WithLabelValues(eventType, result).Inc()
}

func ObserveNotification(kind string) {
	notificationsSent.WithLabelValues(kind).Inc()
}
