package mailer

import "github.com/sirupsen/logrus"

// EmailJob is the JSON payload the API publishes on the email queue. Jobs with
// a Template are rendered by the worker from Data; Subject overrides the
// rendered subject. Text and HTML are only read for pre-rendered jobs.
type EmailJob struct {
	To             string         `json:"to"`
	Template       string         `json:"template,omitempty"` // blood_request or donor_request
	Data           map[string]any `json:"data,omitempty"`
	NotificationID int64          `json:"notification_id,omitempty"`
	Subject        string         `json:"subject,omitempty"`
	Text           string         `json:"text,omitempty"`
	HTML           string         `json:"html,omitempty"`
}

// LogFields identifies the job in logs without its body.
func (j *EmailJob) LogFields() logrus.Fields {
	f := logrus.Fields{"template": j.Template}
	if j.NotificationID > 0 {
		f["notification_id"] = j.NotificationID
	}
	return f
}
