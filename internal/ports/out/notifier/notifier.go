package notifier

import (
	"context"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Notifier tells the sales team about a new lead.
type Notifier interface {
	NotifyLead(ctx context.Context, l domain.Lead) error
}
