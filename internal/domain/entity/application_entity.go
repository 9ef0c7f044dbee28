package entity

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	default:
		return false
	}
}

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	st := ApplicationStatus(s)
	return st, st.Valid()
}

// CanTransition reports whether moving from s to next is an applied transition.
// Re-asserting the current status is handled by callers as a no-op.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	switch s {
	case ApplicationPending:
		return next == ApplicationApproved || next == ApplicationRejected
	case ApplicationApproved, ApplicationRejected:
		return false
	default:
		return false
	}
}

type ApplicationType string

const (
	ApplicationTypeDonor     ApplicationType = "donor"
	ApplicationTypeVolunteer ApplicationType = "volunteer"
)

func (t ApplicationType) Valid() bool {
	switch t {
	case ApplicationTypeDonor, ApplicationTypeVolunteer:
		return true
	default:
		return false
	}
}

func ParseApplicationType(s string) (ApplicationType, bool) {
	t := ApplicationType(s)
	return t, t.Valid()
}

// Application is a user's request to take part in an event. At most one per
// (UserID, EventID).
type Application struct {
	ID        int64
	UserID    int64
	EventID   int64
	Type      ApplicationType
	Status    ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplicationHistoryItem is an application with the event summary a user sees.
type ApplicationHistoryItem struct {
	Application
	EventName     string
	EventDate     time.Time
	EventLocation string
}

// ApplicationAdminView is an application with applicant and event names.
type ApplicationAdminView struct {
	Application
	UserName  string
	UserEmail string
	EventName string
}
