package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBloodGroup(t *testing.T) {
	for _, bg := range BloodGroups {
		got, ok := ParseBloodGroup(string(bg))
		assert.True(t, ok, bg)
		assert.Equal(t, bg, got)
	}

	got, ok := ParseBloodGroup(" ab- ")
	assert.True(t, ok)
	assert.Equal(t, BloodGroupABNeg, got)

	for _, in := range []string{"", "O", "C+", "AB", "0+"} {
		_, ok := ParseBloodGroup(in)
		assert.False(t, ok, in)
	}
}

func TestApplicationStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{ApplicationPending, ApplicationApproved, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationPending, ApplicationPending, false},
		{ApplicationApproved, ApplicationPending, false},
		{ApplicationApproved, ApplicationRejected, false},
		{ApplicationRejected, ApplicationApproved, false},
		{ApplicationStatus("cancelled"), ApplicationApproved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestParseDonorStatus(t *testing.T) {
	for _, s := range []string{"available", "unavailable", "requested"} {
		_, ok := ParseDonorStatus(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseDonorStatus("Available")
	assert.False(t, ok)
}

func TestActor_IsAdmin(t *testing.T) {
	assert.True(t, Actor{UserID: 1, Role: RoleAdmin}.IsAdmin())
	assert.False(t, Actor{UserID: 1, Role: RoleUser}.IsAdmin())
	assert.False(t, Role("root").Valid())
}
