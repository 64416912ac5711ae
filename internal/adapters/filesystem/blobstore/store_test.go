package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	memclock "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/blobstore"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	s, err := NewStore(t.TempDir(), "https://cdn.example.com/files/", clk)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStore_PutWritesFileOnce(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	obj, err := s.Put(ctx, "uploads/brochure-abc.pdf", "application/pdf", strings.NewReader("%PDF-1.4 hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.URL != "https://cdn.example.com/files/uploads/brochure-abc.pdf" || obj.Size != int64(len("%PDF-1.4 hello")) {
		t.Fatalf("obj=%+v", obj)
	}
	b, err := os.ReadFile(filepath.Join(s.Root(), "uploads", "brochure-abc.pdf"))
	if err != nil || string(b) != "%PDF-1.4 hello" {
		t.Fatalf("read back %q err=%v", b, err)
	}

	if _, err := s.Put(ctx, "uploads/brochure-abc.pdf", "application/pdf", strings.NewReader("other")); !errors.Is(err, blobstore.ErrAlreadyExists) {
		t.Fatalf("err=%v, want ErrAlreadyExists", err)
	}
	b, _ = os.ReadFile(filepath.Join(s.Root(), "uploads", "brochure-abc.pdf"))
	if string(b) != "%PDF-1.4 hello" {
		t.Fatalf("file was overwritten: %q", b)
	}
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	for _, key := range []string{"", "../etc/passwd", "uploads/../../x", "/abs", "uploads//x"} {
		if _, err := s.Put(context.Background(), key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("key %q: expected error", key)
		}
	}
}

func TestStore_Stat(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	if _, err := s.Stat("uploads/missing.txt"); !errors.Is(err, blobstore.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if _, err := s.Put(context.Background(), "uploads/note.txt", "text/plain", strings.NewReader("hello world")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	obj, err := s.Stat("uploads/note.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !strings.HasPrefix(obj.ContentType, "text/plain") || obj.Size != 11 {
		t.Fatalf("obj=%+v", obj)
	}
}
