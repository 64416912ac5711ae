// Package lognotify records lead notifications in the process log.
package lognotify

import (
	"context"
	"log"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

type Notifier struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Notifier{logger: logger}
}

func (n *Notifier) NotifyLead(_ context.Context, l domain.Lead) error {
	vessel := ""
	if l.VesselSlug != nil {
		vessel = string(*l.VesselSlug)
	}
	n.logger.Printf("lead captured id=%s email=%s source=%s vessel=%s", l.ID, l.Email, l.Source, vessel)
	return nil
}
