package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncTransition("approved")
	m.IncTransition("approved")
	m.IncDonation()
	m.AddNotifications("blood_request", 3)
	m.AddNotifications("blood_request", 0)
	m.IncMailPublishFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationTransitions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DonationsRecorded))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.NotificationsCreated.WithLabelValues("blood_request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MailPublishFailures))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncTransition("approved")
		m.IncDonation()
		m.IncDonorRegistration()
		m.AddNotifications("blood_request", 1)
		m.IncMailPublishFailure()
		m.IncSearchIndexFailure()
	})
}
