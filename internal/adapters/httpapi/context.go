package httpapi

import (
	"context"
	"net/http"

	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

type subjectKey struct{}

// WithSubject records the authenticated identity-provider user ID.
func WithSubject(ctx context.Context, sub domain.SubjectID) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFromContext(ctx context.Context) (domain.SubjectID, bool) {
	v, ok := ctx.Value(subjectKey{}).(domain.SubjectID)
	return v, ok && v != ""
}

// requireSubject writes a 401 and reports false when the auth middleware did not run.
func requireSubject(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
	}
	return sub, ok
}
