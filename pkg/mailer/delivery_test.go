package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/blood-donation-service/pkg/mailer/templates"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

func encode(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestDeliver_RendersTemplate(t *testing.T) {
	data := mailtpl.NewBloodRequestData(mailtpl.Brand{CompanyName: "BDN"}, "Ana", "ana@example.com", "B-", "Hall A", "Urgent: B- blood needed at Hall A.")
	body := encode(t, EmailJob{To: "ana@example.com", Template: mailtpl.BloodRequest, Data: data})

	s := new(mockSender)
	s.On("Send", mock.Anything, "ana@example.com", "Urgent: B- blood needed at Hall A",
		mock.MatchedBy(func(text string) bool { return len(text) > 0 }),
		mock.MatchedBy(func(html string) bool { return len(html) > 0 })).Return(nil)

	job, err := Deliver(context.Background(), s, body)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", job.Data["RecipientEmail"])
	s.AssertExpectations(t)
}

func TestDeliver_PlainJob(t *testing.T) {
	body := encode(t, EmailJob{To: "a@example.com", Subject: "hi", Text: "hello"})

	s := new(mockSender)
	s.On("Send", mock.Anything, "a@example.com", "hi", "hello", "").Return(nil)

	_, err := Deliver(context.Background(), s, body)
	require.NoError(t, err)
	s.AssertExpectations(t)
}

func TestDeliver_PermanentFailures(t *testing.T) {
	s := new(mockSender)
	for name, body := range map[string][]byte{
		"bad json":         []byte("{"),
		"no recipient":     encode(t, EmailJob{Subject: "x"}),
		"unknown template": encode(t, EmailJob{To: "a@example.com", Template: "welcome"}),
	} {
		job, err := Deliver(context.Background(), s, body)
		assert.Nil(t, job, name)
		assert.True(t, errors.Is(err, ErrPermanent), name)
	}
	s.AssertNotCalled(t, "Send")
}

func TestDeliver_SendFailureIsRetryable(t *testing.T) {
	body := encode(t, EmailJob{To: "a@example.com", Subject: "hi", Text: "hello"})
	s := new(mockSender)
	s.On("Send", mock.Anything, "a@example.com", "hi", "hello", "").Return(errors.New("503"))

	job, err := Deliver(context.Background(), s, body)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPermanent))
	require.NotNil(t, job)
	assert.Equal(t, "a@example.com", job.To)
}

func TestEmailJob_LogFields(t *testing.T) {
	job := &EmailJob{To: "a@example.com", Template: mailtpl.DonorRequest, NotificationID: 9}
	assert.Equal(t, logrus.Fields{"template": "donor_request", "notification_id": int64(9)}, job.LogFields())
	assert.NotContains(t, (&EmailJob{}).LogFields(), "notification_id")
}

func TestClassify(t *testing.T) {
	base := errors.New("boom")
	assert.NoError(t, classify(nil, 0))
	assert.ErrorIs(t, classify(base, http.StatusBadRequest), ErrPermanent)
	assert.ErrorIs(t, classify(base, http.StatusUnauthorized), ErrPermanent)
	for _, status := range []int{http.StatusTooManyRequests, http.StatusBadGateway, -1} {
		err := classify(base, status)
		assert.Same(t, base, err)
		assert.False(t, errors.Is(err, ErrPermanent))
	}
}
