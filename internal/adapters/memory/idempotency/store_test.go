package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/bookings",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"reference":"r1"}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}

	if _, ok, _ := s.Get(context.Background(), fp.Meta()); ok {
		t.Fatalf("Get(meta) ok=true, want false")
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k1", Method: "POST", Route: "/bookings"}
	_ = s.Put(context.Background(), fp, idempotency.Record{Body: []byte("abc")})

	got, _, _ := s.Get(context.Background(), fp)
	got.Body[0] = 'x'

	again, _, _ := s.Get(context.Background(), fp)
	if string(again.Body) != "abc" {
		t.Fatalf("stored body mutated: %q", again.Body)
	}
}

func TestStore_DeleteOlderThan(t *testing.T) {
	t.Parallel()

	s := NewStore()
	old := idempotency.Fingerprint{Key: "old", Method: "POST", Route: "/bookings"}
	fresh := idempotency.Fingerprint{Key: "fresh", Method: "POST", Route: "/bookings"}
	_ = s.Put(context.Background(), old, idempotency.Record{CreatedAt: time.Unix(100, 0)})
	_ = s.Put(context.Background(), fresh, idempotency.Record{CreatedAt: time.Unix(300, 0)})

	n, err := s.DeleteOlderThan(context.Background(), time.Unix(200, 0))
	if err != nil || n != 1 {
		t.Fatalf("DeleteOlderThan n=%d err=%v", n, err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", s.Len())
	}
}

func TestStore_ReserveIsExclusive(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k1", Method: "POST", Route: "/bookings"}

	var wg sync.WaitGroup
	var won atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Reserve(context.Background(), fp, idempotency.Record{Body: []byte("abc")}); ok {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	if won.Load() != 1 {
		t.Fatalf("reservations=%d, want 1", won.Load())
	}

	_ = s.Delete(context.Background(), fp)
	if ok, _ := s.Reserve(context.Background(), fp, idempotency.Record{}); !ok {
		t.Fatalf("Reserve after Delete ok=false, want true")
	}
}
