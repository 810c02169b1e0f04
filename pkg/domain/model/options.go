package model

// QueryOptions carries the caller's control knobs for a query operation.
type QueryOptions struct {
	// AttributesToGet requests attributes beyond the returned-by-default
	// set, e.g. the expensive team association of a user.
	AttributesToGet []string

	// AllowPartialAttributeValues lets the connector skip expensive
	// association resolution and mark those attributes incomplete instead.
	AllowPartialAttributeValues bool
}
