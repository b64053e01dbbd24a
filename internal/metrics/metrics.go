package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "levelup_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SessionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_sessions_created_total",
			Help: "Total number of training sessions created",
		},
		[]string{"mode"},
	)

	SessionCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_session_cancellations_total",
			Help: "Total number of session cancellations",
		},
		[]string{"actor_role"},
	)

	CreditsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "levelup_credits_issued_total",
			Help: "Total number of cancellation credits issued",
		},
	)

	CreditsIssuedCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "levelup_credits_issued_cents_total",
			Help: "Total amount of cancellation credits issued, in cents",
		},
	)

	JoinRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_join_requests_total",
			Help: "Total number of partner join requests by outcome",
		},
		[]string{"outcome"},
	)

	JoinApproveRaceLossesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "levelup_join_approve_race_losses_total",
			Help: "Approvals rejected because the last seat was already taken",
		},
	)

	InviteCodeRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "levelup_invite_code_retries_total",
			Help: "Invite code allocations retried after a uniqueness collision",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_notifications_total",
			Help: "Total number of notifications by type and status",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "levelup_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	CheckoutsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "levelup_checkouts_created_total",
			Help: "Total number of payment checkouts by status",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSessionCreated(mode string) {
	SessionsCreatedTotal.WithLabelValues(mode).Inc()
}

func RecordCancellation(actorRole string) {
	SessionCancellationsTotal.WithLabelValues(actorRole).Inc()
}

func RecordCreditIssued(amountCents int64) {
	CreditsIssuedTotal.Inc()
	CreditsIssuedCents.Add(float64(amountCents))
}

func RecordJoinRequest(outcome string) {
	JoinRequestsTotal.WithLabelValues(outcome).Inc()
}

func RecordJoinApproveRaceLoss() {
	JoinApproveRaceLossesTotal.Inc()
}

func RecordInviteCodeRetry() {
	InviteCodeRetriesTotal.Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsTotal.WithLabelValues(notifType, status).Inc()
}

func RecordCheckout(status string) {
	CheckoutsCreatedTotal.WithLabelValues(status).Inc()
}
