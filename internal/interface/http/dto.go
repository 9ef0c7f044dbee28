package handlers

import (
	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
)

type applicationResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	EventID         int64  `json:"event_id"`
	ApplicationType string `json:"application_type"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toApplication(a entity.Application) applicationResponse {
	return applicationResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		EventID:         a.EventID,
		ApplicationType: string(a.Type),
		Status:          string(a.Status),
		CreatedAt:       helpers.FormatTimestamp(a.CreatedAt),
		UpdatedAt:       helpers.FormatTimestamp(a.UpdatedAt),
	}
}

type eventSummary struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type historyItemResponse struct {
	applicationResponse
	Event eventSummary `json:"event"`
}

func toHistory(items []entity.ApplicationHistoryItem) []historyItemResponse {
	out := make([]historyItemResponse, 0, len(items))
	for _, it := range items {
		date := it.EventDate
		out = append(out, historyItemResponse{
			applicationResponse: toApplication(it.Application),
			Event:               eventSummary{Name: it.EventName, Date: helpers.FormatDate(&date), Location: it.EventLocation},
		})
	}
	return out
}

type adminApplicationResponse struct {
	applicationResponse
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	EventName string `json:"event_name"`
}

func toAdminApplications(views []entity.ApplicationAdminView) []adminApplicationResponse {
	out := make([]adminApplicationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, adminApplicationResponse{
			applicationResponse: toApplication(v.Application),
			UserName:            v.UserName,
			UserEmail:           v.UserEmail,
			EventName:           v.EventName,
		})
	}
	return out
}

type donorResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	UserName   string `json:"user_name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Age        int    `json:"age"`
	BloodGroup string `json:"blood_group"`
	Hospital   string `json:"hospital"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func toDonor(v entity.DonorView) donorResponse {
	return donorResponse{
		ID:         v.ID,
		UserID:     v.UserID,
		UserName:   v.UserName,
		Phone:      v.Phone,
		City:       v.City,
		Age:        v.Age,
		BloodGroup: string(v.BloodGroup),
		Hospital:   v.Hospital,
		Status:     string(v.Status),
		CreatedAt:  helpers.FormatTimestamp(v.CreatedAt),
	}
}

func toDonors(vs []entity.DonorView) []donorResponse {
	out := make([]donorResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toDonor(v))
	}
	return out
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func toNotification(n entity.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		CreatedAt: helpers.FormatTimestamp(n.CreatedAt),
	}
}

func toNotifications(ns []entity.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotification(n))
	}
	return out
}

type ledgerResponse struct {
	UserID         int64  `json:"user_id"`
	TotalDonations int    `json:"total_donations"`
	LastDonation   string `json:"last_donation,omitempty"`
}

func toLedger(s entity.LedgerSnapshot) ledgerResponse {
	return ledgerResponse{
		UserID:         s.UserID,
		TotalDonations: s.TotalDonations,
		LastDonation:   helpers.FormatDate(s.LastDonation),
	}
}
