package entity

import "time"

type NotificationType string

const (
	NotificationBloodRequest NotificationType = "blood_request"
	NotificationDonorRequest NotificationType = "donor_request"
)

type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	IsRead    bool
	Type      NotificationType
	CreatedAt time.Time
}
