package leadrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
)

// Repo is an in-memory implementation of leadrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.LeadID]domain.Lead
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.LeadID]domain.Lead),
	}
}

func (r *Repo) Create(ctx context.Context, l domain.Lead) error {
	_ = ctx
	if l.ID == "" {
		return leadrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; ok {
		return leadrepo.ErrAlreadyExists
	}
	r.byID[l.ID] = cloneLead(l)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Lead, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Lead, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, cloneLead(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneLead(l domain.Lead) domain.Lead {
	cp := l
	if l.Name != nil {
		v := *l.Name
		cp.Name = &v
	}
	if l.Phone != nil {
		v := *l.Phone
		cp.Phone = &v
	}
	if l.VesselSlug != nil {
		v := *l.VesselSlug
		cp.VesselSlug = &v
	}
	if l.Message != nil {
		v := *l.Message
		cp.Message = &v
	}
	return cp
}
