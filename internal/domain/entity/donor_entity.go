package entity

import "time"

type DonorStatus string

const (
	DonorStatusAvailable   DonorStatus = "available"
	DonorStatusUnavailable DonorStatus = "unavailable"
	DonorStatusRequested   DonorStatus = "requested"
)

func (s DonorStatus) Valid() bool {
	switch s {
	case DonorStatusAvailable, DonorStatusUnavailable, DonorStatusRequested:
		return true
	default:
		return false
	}
}

func ParseDonorStatus(s string) (DonorStatus, bool) {
	st := DonorStatus(s)
	return st, st.Valid()
}

// Donor is one availability registration. A user may hold several, depending
// on the registration policy.
type Donor struct {
	ID         int64
	UserID     int64
	Phone      string
	City       string
	Age        int
	BloodGroup BloodGroup
	Hospital   string
	Status     DonorStatus
	CreatedAt  time.Time
}

// DonorView is a donor joined with its owner's display name.
type DonorView struct {
	Donor
	UserName string
}

// DonorSearchQuery filters the donor search index. Empty fields match anything.
type DonorSearchQuery struct {
	City       string
	BloodGroup BloodGroup
	Status     DonorStatus
	Size       int
}
