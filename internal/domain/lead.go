package domain

import "time"

// Lead is a contact captured from a site popup or enquiry form.
type Lead struct {
	ID LeadID

	Email string
	Name  *string
	Phone *string

	// Source identifies the popup or form that captured the lead (e.g. "exit-intent", "vessel-enquiry").
	Source     string
	VesselSlug *VesselSlug
	Message    *string

	CreatedAt time.Time
}
