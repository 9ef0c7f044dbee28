package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain counters exposed on /api/metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	ApplicationTransitions *prometheus.CounterVec
	DonationsRecorded      prometheus.Counter
	DonorRegistrations     prometheus.Counter
	NotificationsCreated   *prometheus.CounterVec
	MailPublishFailures    prometheus.Counter
	SearchIndexFailures    prometheus.Counter
}

// New registers all metrics on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ApplicationTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_application_transitions_total",
			Help: "Application status transitions actually applied, by target status",
		}, []string{"status"}),

		DonationsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "blood_donation_donations_recorded_total",
			Help: "Ledger increments applied on approval",
		}),

		DonorRegistrations: f.NewCounter(prometheus.CounterOpts{
			Name: "blood_donation_donor_registrations_total",
			Help: "Donor availability registrations created",
		}),

		NotificationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_notifications_created_total",
			Help: "Notifications written, by type",
		}, []string{"type"}),

		MailPublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "blood_donation_mail_publish_failures_total",
			Help: "Email jobs that could not be published to the mail queue",
		}),

		SearchIndexFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "blood_donation_search_index_failures_total",
			Help: "Donor search index writes that failed",
		}),
	}
}

func (m *Metrics) IncTransition(status string) {
	if m != nil {
		m.ApplicationTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncDonation() {
	if m != nil {
		m.DonationsRecorded.Inc()
	}
}

func (m *Metrics) IncDonorRegistration() {
	if m != nil {
		m.DonorRegistrations.Inc()
	}
}

// AddNotifications records n notifications of the given type.
func (m *Metrics) AddNotifications(typ string, n int) {
	if m != nil && n > 0 {
		m.NotificationsCreated.WithLabelValues(typ).Add(float64(n))
	}
}

func (m *Metrics) IncMailPublishFailure() {
	if m != nil {
		m.MailPublishFailures.Inc()
	}
}

func (m *Metrics) IncSearchIndexFailure() {
	if m != nil {
		m.SearchIndexFailures.Inc()
	}
}
