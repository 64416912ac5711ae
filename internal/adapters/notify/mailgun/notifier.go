// Package mailgun emails the sales inbox when a lead is captured.
package mailgun

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"text/template"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Sender is the subset of the Mailgun client the notifier needs.
type Sender interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

type Config struct {
	Domain string
	APIKey string
	From   string
	To     string
}

type Notifier struct {
	sender Sender
	from   string
	to     string
}

func New(cfg Config) *Notifier {
	return NewWithSender(mailgun.NewMailgun(cfg.Domain, cfg.APIKey), cfg.From, cfg.To)
}

// NewWithSender allows injecting a test sender.
func NewWithSender(s Sender, from, to string) *Notifier {
	return &Notifier{sender: s, from: from, to: to}
}

var leadTemplate = template.Must(template.New("lead").Parse(`New lead from {{.Source}}

Email:    {{.Email}}
{{- if .Name}}
Name:     {{.Name}}{{end}}
{{- if .Phone}}
Phone:    {{.Phone}}{{end}}
{{- if .Vessel}}
Vessel:   {{.Vessel}}{{end}}
Received: {{.Received}}
{{- if .Message}}

{{.Message}}{{end}}
`))

type leadView struct {
	Source   string
	Email    string
	Name     string
	Phone    string
	Vessel   string
	Message  string
	Received string
}

func (n *Notifier) NotifyLead(ctx context.Context, l domain.Lead) error {
	body, err := renderLead(l)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New lead: %s (%s)", l.Email, l.Source)
	m := n.sender.NewMessage(n.from, subject, body, n.to)
	m.SetReplyTo(l.Email)

	resp, id, err := n.sender.Send(ctx, m)
	if err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	log.Printf("lead notification sent lead=%s id=%s resp=%s", l.ID, id, resp)
	return nil
}

func renderLead(l domain.Lead) (string, error) {
	v := leadView{
		Source:   l.Source,
		Email:    l.Email,
		Name:     deref(l.Name),
		Phone:    deref(l.Phone),
		Message:  deref(l.Message),
		Received: l.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	if l.VesselSlug != nil {
		v.Vessel = string(*l.VesselSlug)
	}
	var buf bytes.Buffer
	if err := leadTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render lead email: %w", err)
	}
	return buf.String(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
