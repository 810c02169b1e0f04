package model

import (
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// AttributeInfo declares how a single attribute behaves for one object kind.
type AttributeInfo struct {
	Name              string `json:"name"`
	Required          bool   `json:"required"`
	Creatable         bool   `json:"creatable"`
	Updatable         bool   `json:"updatable"`
	MultiValued       bool   `json:"multiValued"`
	ReturnedByDefault bool   `json:"returnedByDefault"`
	CaseInsensitive   bool   `json:"caseInsensitive"`
}

// ObjectSchema is the declared attribute set of one object kind. It is built
// once at connector construction and passed explicitly to every operation.
type ObjectSchema struct {
	Kind         types.ObjectKind `json:"kind"`
	IdentityAttr string           `json:"identityAttr"`
	Attributes   []AttributeInfo  `json:"attributes"`

	byName map[string]*AttributeInfo
}

// Schema bundles the schemas of both supported kinds.
type Schema struct {
	User ObjectSchema `json:"user"`
	Team ObjectSchema `json:"team"`
}

// NewSchema declares the user and team schemas. The remote API exposes no
// schema discovery, so this is the single source of truth for which
// attributes exist and which of them are settable.
func NewSchema() *Schema {
	return &Schema{
		User: newObjectSchema(types.KindUser, AttrEmail, []AttributeInfo{
			{Name: AttrEmail, Required: true, Creatable: true, CaseInsensitive: true, ReturnedByDefault: true},
			{Name: AttrRole, Creatable: true, Updatable: true, ReturnedByDefault: true},
			{Name: AttrUsername, ReturnedByDefault: true, CaseInsensitive: true},
			{Name: AttrDisplayName, ReturnedByDefault: true},
			{Name: AttrAvatarURL, ReturnedByDefault: true},
			{Name: AttrTeams, Updatable: true, MultiValued: true, CaseInsensitive: true},
		}),
		Team: newObjectSchema(types.KindTeam, AttrTeamName, []AttributeInfo{
			{Name: AttrTeamName, Required: true, Creatable: true, ReturnedByDefault: true},
			{Name: AttrDisplayName, Creatable: true, Updatable: true, ReturnedByDefault: true},
			{Name: AttrDescription, Creatable: true, Updatable: true, ReturnedByDefault: true},
			{Name: AttrMembers, Updatable: true, MultiValued: true, CaseInsensitive: true},
		}),
	}
}

func newObjectSchema(kind types.ObjectKind, identityAttr string, attrs []AttributeInfo) ObjectSchema {
	s := ObjectSchema{
		Kind:         kind,
		IdentityAttr: identityAttr,
		Attributes:   attrs,
	}
	s.byName = make(map[string]*AttributeInfo, len(attrs))
	for i := range s.Attributes {
		s.byName[s.Attributes[i].Name] = &s.Attributes[i]
	}
	return s
}

// Lookup returns the declared info of the named attribute, or nil if the
// attribute is not part of the schema.
func (s *ObjectSchema) Lookup(name string) *AttributeInfo {
	return s.byName[name]
}

// ByKind returns the schema of the given object kind.
func (s *Schema) ByKind(kind types.ObjectKind) *ObjectSchema {
	switch kind {
	case types.KindUser:
		return &s.User
	case types.KindTeam:
		return &s.Team
	default:
		return nil
	}
}

// FullAttributesToGet resolves the effective attribute set of a query:
// every returned-by-default attribute plus the explicitly requested ones.
func (s *ObjectSchema) FullAttributesToGet(requested []string) map[string]bool {
	full := make(map[string]bool, len(s.Attributes))
	for _, a := range s.Attributes {
		if a.ReturnedByDefault {
			full[a.Name] = true
		}
	}
	for _, name := range requested {
		if s.byName[name] != nil {
			full[name] = true
		}
	}
	return full
}
