package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_BloodRequest(t *testing.T) {
	b := Brand{AppName: "Lifeline", CompanyName: "Blood Donation Network"}
	data := NewBloodRequestData(b, "Budi", "budi@example.com", "O+", "RS Hasan",
		"Urgent: O+ blood needed at RS Hasan. Please come today",
		WithMessage("Please come today"), WithTime(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)))

	subject, text, html, err := Render(BloodRequest, data)
	require.NoError(t, err)
	assert.Equal(t, "Urgent: O+ blood needed at RS Hasan", subject)
	assert.Contains(t, text, "Hi Budi,")
	assert.Contains(t, text, "Please come today")
	assert.Contains(t, text, "02 January 2026, 03:04")
	assert.Contains(t, html, "Blood Donation Network")
	assert.Contains(t, html, "Lifeline")
}

func TestRender_DonorRequestDefaults(t *testing.T) {
	data := NewDonorRequestData(Brand{}, "", "x@example.com", "A-", "", "You have been asked to donate A- blood.")

	subject, text, _, err := Render(DonorRequest, data)
	require.NoError(t, err)
	assert.Equal(t, "A patient is asking you to donate A- blood", subject)
	assert.Contains(t, text, "Hi there,")
	assert.NotContains(t, text, "Location:")
}

func TestRender_UnknownTemplate(t *testing.T) {
	assert.False(t, Known("welcome"))
	_, _, _, err := Render("welcome", map[string]any{})
	assert.Error(t, err)
}
