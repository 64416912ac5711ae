package httpapi

import (
	"net/http"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/uploads"
)

// Upload stores the raw request body as a public blob named after ?filename=.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	obj, err := s.Uploads.Upload(r.Context(), sub, uploads.UploadInput{
		Filename: r.URL.Query().Get("filename"),
		Body:     r.Body,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.UploadResponse{
		Url:         obj.URL,
		Pathname:    obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		UploadedAt:  obj.UploadedAt.UTC(),
	})
}
