package uploads_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	memblobstore "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/blobstore"
	memclock "github.com/Meridian-Yachting/brokerage-api/internal/adapters/memory/clock"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
)

func newService() (*uploads.Service, *memblobstore.Store) {
	store := memblobstore.NewStore("https://cdn.example.com", memclock.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	svc := uploads.NewService(store, 64)
	svc.SetNewSuffixForTest(func() string { return "abcd1234" })
	return svc, store
}

func TestService_Upload_StoresWithSniffedType(t *testing.T) {
	t.Parallel()

	svc, store := newService()
	obj, err := svc.Upload(context.Background(), "sub-1", uploads.UploadInput{
		Filename: "../../etc/My Brochure.pdf",
		Body:     strings.NewReader("%PDF-1.4\n%fake\n"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if obj.Key != "uploads/My-Brochure-abcd1234.pdf" {
		t.Fatalf("key=%q", obj.Key)
	}
	if obj.ContentType != "application/pdf" {
		t.Fatalf("contentType=%q", obj.ContentType)
	}
	if obj.URL != "https://cdn.example.com/uploads/My-Brochure-abcd1234.pdf" || obj.Size != 15 {
		t.Fatalf("obj=%+v", obj)
	}
	if _, data, err := store.Get(obj.Key); err != nil || !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("stored data=%q err=%v", data, err)
	}
}

func TestService_Upload_MissingFilenameOrBody(t *testing.T) {
	t.Parallel()

	svc, _ := newService()
	for name, in := range map[string]uploads.UploadInput{
		"no filename": {Filename: "", Body: strings.NewReader("x")},
		"dots":        {Filename: "..", Body: strings.NewReader("x")},
		"empty body":  {Filename: "a.txt", Body: strings.NewReader("")},
		"nil body":    {Filename: "a.txt"},
	} {
		_, err := svc.Upload(context.Background(), "sub-1", in)
		var ae *uploads.Error
		if !errors.As(err, &ae) || ae.Status != 400 {
			t.Fatalf("%s: err=%v, want 400", name, err)
		}
	}
}

func TestService_Upload_TooLarge(t *testing.T) {
	t.Parallel()

	svc, _ := newService()
	_, err := svc.Upload(context.Background(), "sub-1", uploads.UploadInput{Filename: "big.bin", Body: strings.NewReader(strings.Repeat("x", 65))})
	var ae *uploads.Error
	if !errors.As(err, &ae) || ae.Status != 413 {
		t.Fatalf("err=%v, want 413", err)
	}
}

func TestService_Upload_RetriesOnKeyCollision(t *testing.T) {
	t.Parallel()

	svc, _ := newService()
	suffixes := []string{"same0000", "same0000", "fresh111"}
	i := 0
	svc.SetNewSuffixForTest(func() string { s := suffixes[i]; i++; return s })

	if _, err := svc.Upload(context.Background(), "sub-1", uploads.UploadInput{Filename: "a.txt", Body: strings.NewReader("one")}); err != nil {
		t.Fatalf("first: %v", err)
	}
	obj, err := svc.Upload(context.Background(), "sub-1", uploads.UploadInput{Filename: "a.txt", Body: strings.NewReader("two")})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if obj.Key != "uploads/a-fresh111.txt" {
		t.Fatalf("key=%q", obj.Key)
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"photo.jpg":            "photo.jpg",
		`C:\Users\me\deck.png`: "deck.png",
		"  spaced name.txt ":   "spaced-name.txt",
		"weird$#@!.gif":        "weird.gif",
		"....":                 "",
	}
	for in, want := range cases {
		if got := uploads.SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestService_Upload_RequiresCaller(t *testing.T) {
	t.Parallel()

	svc, store := newService()
	_, err := svc.Upload(context.Background(), "", uploads.UploadInput{Filename: "a.txt", Body: strings.NewReader("one")})
	var ue *uploads.Error
	if !errors.As(err, &ue) || ue.Status != 401 || ue.Code != "UNAUTHENTICATED" {
		t.Fatalf("err=%v, want 401 UNAUTHENTICATED", err)
	}
	if _, _, err := store.Get("uploads/a-abcd1234.txt"); err == nil {
		t.Fatalf("anonymous upload was stored")
	}
}
