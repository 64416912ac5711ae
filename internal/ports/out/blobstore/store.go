package blobstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrAlreadyExists = errors.New("blob already exists")
	ErrNotFound      = errors.New("blob not found")
)

// Object describes a stored blob.
type Object struct {
	// Key is the store-relative pathname (e.g. "uploads/brochure-3f9a1c2e.pdf").
	Key         string
	URL         string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// Store is a write-once public object store.
type Store interface {
	// Put writes body under key. It never overwrites: an existing key yields ErrAlreadyExists.
	Put(ctx context.Context, key string, contentType string, body io.Reader) (Object, error)
}
