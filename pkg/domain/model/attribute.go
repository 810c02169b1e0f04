package model

// Attribute names shared between the declared schema, the mapper and the
// record projection. The identity key attribute differs per kind: "email"
// for users, "name" for teams.
const (
	AttrEmail       = "email"
	AttrRole        = "role"
	AttrDisplayName = "displayName"
	AttrAvatarURL   = "avatarUrl"
	AttrUsername    = "githubLogin"
	AttrTeams       = "teams"

	AttrTeamName    = "name"
	AttrDescription = "description"
	AttrMembers     = "members"
)

// AttributeSet carries the full attribute values of a create operation.
// All values are strings on the wire; multi-valued attributes hold more
// than one entry.
type AttributeSet map[string][]string

// First returns the first value of the named attribute, or "" if absent.
func (a AttributeSet) First(name string) string {
	if vs, ok := a[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether the attribute is present, even with zero values.
func (a AttributeSet) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Delta is an incremental change to a single attribute. Replace carries a
// full single-value replacement (ReplaceSet distinguishes "replace with
// nothing" from "no replacement"); Add and Remove carry multi-value
// increments.
type Delta struct {
	Name       string
	Add        []string
	Remove     []string
	Replace    string
	ReplaceSet bool
}

// DeltaSet is the set of attribute changes of one update operation.
type DeltaSet []Delta

// Find returns the delta for the named attribute, or nil if the update does
// not touch it.
func (d DeltaSet) Find(name string) *Delta {
	for i := range d {
		if d[i].Name == name {
			return &d[i]
		}
	}
	return nil
}
