package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// VesselID is an internal identifier for a vessel record.
type VesselID string

// VesselSlug is the public, URL-safe identity of a vessel.
type VesselSlug string

// PassageID identifies one leg of the circumnavigation itinerary.
type PassageID string

// ExternalUserID is the identity provider's identifier for a user.
// Mirrored user rows are keyed by it.
type ExternalUserID string

// LeadID is an internal identifier for a captured lead.
type LeadID string
