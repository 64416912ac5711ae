// Package blobstore stores uploads as files under a root directory.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/blobstore"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/clock"
)

// Store is a filesystem implementation of blobstore.Store.
// Keys map to slash-separated paths below root; existing files are never replaced.
type Store struct {
	root    string
	baseURL string
	clock   clock.Clock
}

func NewStore(root, baseURL string, clk clock.Clock) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("blob root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/"), clock: clk}, nil
}

// Root returns the directory blobs are written to.
func (s *Store) Root() string { return s.root }

func (s *Store) Put(ctx context.Context, key string, contentType string, body io.Reader) (blobstore.Object, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return blobstore.Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return blobstore.Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return blobstore.Object{}, fmt.Errorf("create blob dir: %w", err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return blobstore.Object{}, blobstore.ErrAlreadyExists
		}
		return blobstore.Object{}, fmt.Errorf("create blob %s: %w", key, err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return blobstore.Object{}, fmt.Errorf("write blob %s: %w", key, err)
	}

	return blobstore.Object{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		ContentType: contentType,
		Size:        n,
		UploadedAt:  s.clock.Now().UTC(),
	}, nil
}

// Stat describes a stored blob, sniffing its content type from disk.
func (s *Store) Stat(key string) (blobstore.Object, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return blobstore.Object{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return blobstore.Object{}, blobstore.ErrNotFound
		}
		return blobstore.Object{}, err
	}
	mt, err := mimetype.DetectFile(p)
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("detect blob type: %w", err)
	}
	return blobstore.Object{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		ContentType: mt.String(),
		Size:        fi.Size(),
		UploadedAt:  fi.ModTime().UTC(),
	}, nil
}

func (s *Store) pathFor(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean != "/"+key {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}
