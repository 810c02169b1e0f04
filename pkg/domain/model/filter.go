package model

import "github.com/secmon-lab/pulumi-connector/pkg/domain/types"

// FilterOp is the comparison operator of an inbound query filter.
type FilterOp string

const (
	// FilterEquals matches a single-valued attribute exactly.
	FilterEquals FilterOp = "equals"
	// FilterContainsAll matches when a multi-valued attribute contains
	// every given value.
	FilterContainsAll FilterOp = "contains-all"
)

// Filter is the generic search filter handed in by the caller. Only a small
// subset translates to a native lookup; Translate returns nil for the rest,
// which means "scan everything".
type Filter struct {
	Attr   string
	Op     FilterOp
	Values []string
}

// NativeFilter is the part of a Filter the connector can serve without a
// full scan: an exact identity-key lookup, or a single-member containment
// test on the team members attribute.
type NativeFilter struct {
	Attr  string
	Value string
}

// IsIdentity reports whether the native filter targets the identity key of
// the schema.
func (f *NativeFilter) IsIdentity(schema *ObjectSchema) bool {
	return f.Attr == schema.IdentityAttr
}

// Translate reduces the generic filter to a native one, or nil when the
// remote API offers no matching lookup.
func (f *Filter) Translate(schema *ObjectSchema) *NativeFilter {
	if f == nil {
		return nil
	}

	switch f.Op {
	case FilterEquals:
		if f.Attr == schema.IdentityAttr && len(f.Values) == 1 {
			return &NativeFilter{Attr: f.Attr, Value: f.Values[0]}
		}
	case FilterContainsAll:
		// Only a single-value containment on the member list has a
		// native resolution path.
		if f.Attr == AttrMembers && schema.Kind == types.KindTeam && len(f.Values) == 1 {
			return &NativeFilter{Attr: f.Attr, Value: f.Values[0]}
		}
	}

	return nil
}
