package userrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ExternalUserID]userrepo.User
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ExternalUserID]userrepo.User),
	}
}

func (r *Repo) Upsert(ctx context.Context, u userrepo.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byID[u.ExternalID]; ok {
		u.CreatedAt = prev.CreatedAt
	}
	r.byID[u.ExternalID] = cloneUser(u)
	return nil
}

func (r *Repo) GetByExternalID(ctx context.Context, id domain.ExternalUserID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) DeleteByExternalID(ctx context.Context, id domain.ExternalUserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return userrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]userrepo.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

func cloneUser(u userrepo.User) userrepo.User {
	cp := u
	cp.FirstName = cloneStringPtr(u.FirstName)
	cp.LastName = cloneStringPtr(u.LastName)
	cp.ImageURL = cloneStringPtr(u.ImageURL)
	return cp
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
