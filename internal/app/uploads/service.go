package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/blobstore"
)

// DefaultMaxBytes caps a single upload.
const DefaultMaxBytes = 25 << 20

const keyPrefix = "uploads/"

type UploadInput struct {
	Filename string
	Body     io.Reader
}

type Service struct {
	blobs    blobstore.Store
	maxBytes int64

	newSuffix func() string
}

func NewService(blobs blobstore.Store, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		blobs:    blobs,
		maxBytes: maxBytes,
		newSuffix: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		},
	}
}

// SetNewSuffixForTest overrides key suffix generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewSuffixForTest(fn func() string) {
	if fn != nil {
		s.newSuffix = fn
	}
}

// Upload stores the body publicly under a sanitized, uniquified key.
// Uploads are attributed to caller, which must be set.
func (s *Service) Upload(ctx context.Context, caller domain.SubjectID, in UploadInput) (blobstore.Object, error) {
	if caller == "" {
		return blobstore.Object{}, &Error{Status: 401, Code: "UNAUTHENTICATED", Message: "Authentication required"}
	}

	name := SanitizeFilename(in.Filename)
	if name == "" {
		return blobstore.Object{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "Filename is required", Details: map[string]any{"filename": "must be non-empty"}}
	}
	if in.Body == nil {
		return blobstore.Object{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "File body is required"}
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return blobstore.Object{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return blobstore.Object{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "File body is required"}
	}
	if int64(len(data)) > s.maxBytes {
		return blobstore.Object{}, &Error{Status: 413, Code: "PAYLOAD_TOO_LARGE", Message: "File is too large", Details: map[string]any{"maxBytes": s.maxBytes}}
	}

	contentType := mimetype.Detect(data).String()

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for attempt := 0; attempt < 3; attempt++ {
		key := keyPrefix + stem + "-" + s.newSuffix() + ext
		obj, err := s.blobs.Put(ctx, key, contentType, bytes.NewReader(data))
		if errors.Is(err, blobstore.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return blobstore.Object{}, fmt.Errorf("store upload: %w", err)
		}
		log.Printf("upload stored key=%s size=%d type=%s subject=%s", obj.Key, obj.Size, obj.ContentType, caller)
		return obj, nil
	}
	return blobstore.Object{}, fmt.Errorf("store upload: %w", blobstore.ErrAlreadyExists)
}

// SanitizeFilename reduces name to a safe base name. It returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return ""
	}
	return out
}
