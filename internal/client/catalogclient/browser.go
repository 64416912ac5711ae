package catalogclient

import (
	"context"
	"log"
	"sync"

	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Fetcher loads one page of listing results.
type Fetcher interface {
	ListVessels(ctx context.Context, p Params) ([]domain.Vessel, error)
}

// State is a snapshot of what a catalog page renders.
type State struct {
	Params  Params
	Vessels []domain.Vessel
	Loading bool
	Err     bool
	Message string
	Search  string
}

// Browser holds listing state across refreshes.
//
// Every refresh is tagged with a sequence number and its response is applied
// only while that tag is still the newest one issued. SetParams issues a new
// tag as well, so responses for superseded parameters are dropped even when
// they arrive last.
type Browser struct {
	fetch Fetcher

	mu      sync.Mutex
	seq     uint64
	params  Params
	vessels []domain.Vessel
	loading bool
	err     bool
	message string
	search  string
}

func NewBrowser(f Fetcher, initial Params) *Browser {
	return &Browser{fetch: f, params: initial}
}

// SetParams replaces the listing parameters. Call Refresh to load them.
// Any refresh still in flight is superseded, so the browser stops loading.
func (b *Browser) SetParams(p Params) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.params = p
	b.loading = false
}

// SetSearch sets the client-side search text. It never triggers a fetch.
func (b *Browser) SetSearch(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.search = q
}

// Refresh fetches the current parameters and reports whether the response was
// applied. A false return means a newer refresh or parameter change won.
func (b *Browser) Refresh(ctx context.Context) bool {
	b.mu.Lock()
	b.seq++
	tag := b.seq
	params := b.params
	b.loading = true
	b.mu.Unlock()

	vs, err := b.fetch.ListVessels(ctx, params)

	b.mu.Lock()
	defer b.mu.Unlock()
	// loading belongs to whichever tag is newest.
	if tag != b.seq {
		return false
	}
	b.loading = false
	if err != nil {
		log.Printf("catalogclient: refresh: %v", err)
		b.vessels = nil
		b.err = true
		b.message = catalog.MessageFetchFailed
		return true
	}
	b.vessels = vs
	b.err = false
	b.message = ""
	return true
}

// Visible returns the last applied result narrowed by the search text.
func (b *Browser) Visible() []domain.Vessel {
	b.mu.Lock()
	vs, q := append([]domain.Vessel(nil), b.vessels...), b.search
	b.mu.Unlock()
	return catalog.Search(vs, q)
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Params:  b.params,
		Vessels: append([]domain.Vessel(nil), b.vessels...),
		Loading: b.loading,
		Err:     b.err,
		Message: b.message,
		Search:  b.search,
	}
}
