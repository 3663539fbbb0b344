package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	formSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionize_form_submissions_total",
			Help: "Total number of processed form submissions",
		},
		[]string{"form", "outcome"},
	)

	emailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionize_emails_sent_total",
			Help: "Total number of notification emails sent",
		},
		[]string{"form"},
	)

	emailsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionize_emails_failed_total",
			Help: "Total number of failed notification email sends",
		},
		[]string{"form"},
	)

	pageRendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ionize_page_renders_total",
			Help: "Total number of page renders",
		},
	)
)

// Submission outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

func RecordSubmission(form, outcome string) {
	formSubmissionsTotal.WithLabelValues(form, outcome).Inc()
}

func RecordEmailSent(form string) {
	emailsSentTotal.WithLabelValues(form).Inc()
}

func RecordEmailFailed(form string) {
	emailsFailedTotal.WithLabelValues(form).Inc()
}

func RecordPageRender() {
	pageRendersTotal.Inc()
}

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
