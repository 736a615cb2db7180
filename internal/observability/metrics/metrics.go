package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CodesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_codes_issued_total",
			Help: "Total number of registration code issuance attempts.",
		},
		[]string{"result"},
	)

	CodesRedeemedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_codes_redeemed_total",
			Help: "Total number of registration code redemption attempts.",
		},
		[]string{"result"},
	)

	ProfileLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_lookups_total",
			Help: "Total number of profile lookups.",
		},
		[]string{"result"},
	)

	BotAuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_auth_attempts_total",
			Help: "Total number of bot API key checks.",
		},
		[]string{"result"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		CodesIssuedTotal,
		CodesRedeemedTotal,
		ProfileLookupsTotal,
		BotAuthAttemptsTotal,
	)
}
