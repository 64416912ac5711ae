package mailgun

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

type fakeSender struct {
	from, subject, text string
	to                  []string
	sent                int
	err                 error
}

func (f *fakeSender) NewMessage(from, subject, text string, to ...string) *mailgun.Message {
	f.from, f.subject, f.text, f.to = from, subject, text, to
	return mailgun.NewMailgun("mg.example.com", "key-test").NewMessage(from, subject, text, to...)
}

func (f *fakeSender) Send(ctx context.Context, m *mailgun.Message) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.sent++
	return "Queued. Thank you.", "<id@mg>", nil
}

func TestNotifyLead_SendsToSalesInbox(t *testing.T) {
	t.Parallel()

	fs := &fakeSender{}
	n := NewWithSender(fs, "Brokerage <noreply@example.com>", "sales@example.com")

	name := "Ada Lovelace"
	slug := domain.VesselSlug("nordhavn-68")
	msg := "Is she still available?"
	err := n.NotifyLead(context.Background(), domain.Lead{
		ID:         "lead-1",
		Email:      "ada@example.com",
		Name:       &name,
		Source:     "vessel-enquiry",
		VesselSlug: &slug,
		Message:    &msg,
		CreatedAt:  time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NotifyLead: %v", err)
	}
	if fs.sent != 1 {
		t.Fatalf("sent=%d, want 1", fs.sent)
	}
	if len(fs.to) != 1 || fs.to[0] != "sales@example.com" {
		t.Fatalf("to=%v", fs.to)
	}
	if !strings.Contains(fs.subject, "ada@example.com") {
		t.Fatalf("subject=%q", fs.subject)
	}
	for _, want := range []string{"Ada Lovelace", "nordhavn-68", "Is she still available?", "2026-04-01 10:30 UTC"} {
		if !strings.Contains(fs.text, want) {
			t.Fatalf("body missing %q:\n%s", want, fs.text)
		}
	}
	if strings.Contains(fs.text, "Phone:") {
		t.Fatalf("body should omit empty phone:\n%s", fs.text)
	}
}

func TestNotifyLead_SendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("401 unauthorized")
	n := NewWithSender(&fakeSender{err: boom}, "from@example.com", "to@example.com")
	if err := n.NotifyLead(context.Background(), domain.Lead{Email: "a@example.com", Source: "popup"}); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}
