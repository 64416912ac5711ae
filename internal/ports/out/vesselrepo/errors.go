package vesselrepo

import "errors"

var (
	// ErrNotFound indicates no visible vessel matches the requested slug.
	ErrNotFound = errors.New("vessel not found")

	// ErrSlugRequired rejects writes without the vessel's public slug.
	ErrSlugRequired = errors.New("vessel slug is required")
)
