package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/blood-donation-service/config"
)

// Brand carries the company fields every email shows.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	UnsubscribeURL string
}

func BrandFromConfig(cfg *config.Config) Brand {
	return Brand{
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}
func WithMessage(msg string) Option    { return func(d *EmailData) { d.Message = strings.TrimSpace(msg) } }
func WithRequester(name string) Option { return func(d *EmailData) { d.RequesterName = name } }
func WithLocation(loc string) Option   { return func(d *EmailData) { d.Location = strings.TrimSpace(loc) } }
func WithBloodGroup(bg string) Option  { return func(d *EmailData) { d.BloodGroup = bg } }
func WithNotice(notice string) Option  { return func(d *EmailData) { d.Notice = notice } }

// NewBaseEmailData fills the brand fields, then applies opts.
func NewBaseEmailData(b Brand, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,

		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
		UnsubscribeURL: b.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewBloodRequestData builds the data for one fan-out recipient. notice is the
// in-app notification text.
func NewBloodRequestData(b Brand, name, email, bloodGroup, location, notice string, opts ...Option) map[string]any {
	opts = append([]Option{WithBloodGroup(bloodGroup), WithLocation(location), WithNotice(notice)}, opts...)
	return ToMap(NewBaseEmailData(b, BloodRequest, name, email, opts...))
}

func NewDonorRequestData(b Brand, name, email, bloodGroup, location, notice string, opts ...Option) map[string]any {
	opts = append([]Option{WithBloodGroup(bloodGroup), WithLocation(location), WithNotice(notice)}, opts...)
	return ToMap(NewBaseEmailData(b, DonorRequest, name, email, opts...))
}
