package model

import (
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// AttributeValue is one attribute of a materialized record. Incomplete marks
// values that were deliberately not resolved (partial query mode); consumers
// must not treat an incomplete empty list as "no associations".
type AttributeValue struct {
	Values     []string `json:"values"`
	Incomplete bool     `json:"incomplete,omitempty"`
}

// Record is the generic attribute form of a resource handed back to the
// caller of a query.
type Record struct {
	Kind  types.ObjectKind          `json:"kind"`
	UID   string                    `json:"uid"`
	Attrs map[string]AttributeValue `json:"attrs"`
}

// Set stores a single-valued attribute, dropping empty strings so that
// records never carry blank values.
func (r *Record) Set(name, value string) {
	if value == "" {
		return
	}
	r.Attrs[name] = AttributeValue{Values: []string{value}}
}

// SetMulti stores a multi-valued attribute.
func (r *Record) SetMulti(name string, values []string) {
	r.Attrs[name] = AttributeValue{Values: values}
}

// SetIncomplete stores an explicit incomplete marker with zero values.
func (r *Record) SetIncomplete(name string) {
	r.Attrs[name] = AttributeValue{Values: []string{}, Incomplete: true}
}

// NewRecord builds an empty record of the given kind and identifier.
func NewRecord(kind types.ObjectKind, uid string) *Record {
	return &Record{
		Kind:  kind,
		UID:   uid,
		Attrs: make(map[string]AttributeValue),
	}
}
