package blobstore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/blobstore"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
)

type entry struct {
	obj  blobstore.Object
	data []byte
}

// Store is an in-memory implementation of blobstore.Store.
// It is safe for concurrent use.
type Store struct {
	baseURL string
	clock   clock.Clock

	mu sync.RWMutex
	m  map[string]entry
}

// NewStore returns a store whose object URLs are baseURL + "/" + key.
func NewStore(baseURL string, clk clock.Clock) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		clock:   clk,
		m:       make(map[string]entry),
	}
}

func (s *Store) Put(ctx context.Context, key string, contentType string, body io.Reader) (blobstore.Object, error) {
	_ = ctx
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return blobstore.Object{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; ok {
		return blobstore.Object{}, blobstore.ErrAlreadyExists
	}
	obj := blobstore.Object{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		ContentType: contentType,
		Size:        n,
		UploadedAt:  s.clock.Now().UTC(),
	}
	s.m[key] = entry{obj: obj, data: buf.Bytes()}
	return obj, nil
}

// Get returns a stored object and its bytes.
func (s *Store) Get(key string) (blobstore.Object, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.m[key]
	if !ok {
		return blobstore.Object{}, nil, blobstore.ErrNotFound
	}
	return e.obj, append([]byte(nil), e.data...), nil
}
