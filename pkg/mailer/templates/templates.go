package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	// Request details
	BloodGroup    string    `json:"BloodGroup"`
	Location      string    `json:"Location"`
	Message       string    `json:"Message"`
	Notice        string    `json:"Notice"`
	RequesterName string    `json:"RequesterName"`
	Time          string    `json:"Time"`
	TimeAt        time.Time `json:"TimeAt"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// Template names
const (
	BloodRequest = "blood_request"
	DonorRequest = "donor_request"
)

// set is one template's subject, text and html parts, parsed once from FS.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	sets     map[string]*set
	loadErr  error
)

// Known reports whether name has a template set in FS.
func Known(name string) bool {
	return name == BloodRequest || name == DonorRequest
}

func parseText(file string) (*texttpl.Template, error) {
	t, err := texttpl.New(file).Funcs(textFuncMap).ParseFS(FS, file)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", file, err)
	}
	return t, nil
}

func load() {
	sets = make(map[string]*set, 2)
	for _, name := range []string{BloodRequest, DonorRequest} {
		ts := &set{}
		if ts.subject, loadErr = parseText(name + ".subject.tmpl"); loadErr != nil {
			return
		}
		if ts.text, loadErr = parseText(name + ".text.tmpl"); loadErr != nil {
			return
		}
		file := name + ".html.tmpl"
		if ts.html, loadErr = htmpl.New(file).Funcs(htmlFuncMap).ParseFS(FS, file); loadErr != nil {
			loadErr = fmt.Errorf("parse %q: %w", file, loadErr)
			return
		}
		sets[name] = ts
	}
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(t executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render executes the subject, text and html parts of the named template.
func Render(name string, data any) (subject, text, html string, err error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return "", "", "", loadErr
	}
	ts, ok := sets[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	if subject, err = execute(ts.subject, name+".subject", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(ts.text, name+".text", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(ts.html, name+".html", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
