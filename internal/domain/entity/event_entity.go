package entity

import "time"

const DefaultEventType = "Blood Donation"

// Event is read-only here; it is managed by the events CRUD surface.
type Event struct {
	ID          int64
	Name        string
	Location    string
	Date        time.Time
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	Capacity    int
	Type        string
	Description string
	ImageURL    string
}
