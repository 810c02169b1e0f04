package model

import (
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// TeamMember is one entry of a team's member list as the remote API reports
// it: native username plus display profile, no email.
type TeamMember struct {
	Username    types.Username
	DisplayName string
	AvatarURL   string
}

// Team is an organization team. Members is nil when the member list was not
// fetched; a fetched team with zero members has a non-nil empty slice. The
// distinction matters because the team listing endpoint never includes
// memberships.
type Team struct {
	Name        types.TeamName
	DisplayName string
	Description string
	Members     []TeamMember
}

// HasMembers reports whether the member list was fetched.
func (t *Team) HasMembers() bool {
	return t.Members != nil
}

// HasMember reports whether the fetched member list contains the username.
// The comparison is case-insensitive, matching the remote API.
func (t *Team) HasMember(username types.Username) bool {
	for _, m := range t.Members {
		if m.Username.Equal(username) {
			return true
		}
	}
	return false
}

// TeamUpdate is a partial metadata update of a team. Nil fields are left
// untouched by the remote API.
type TeamUpdate struct {
	DisplayName *string
	Description *string
}

// IsEmpty reports whether the update would change nothing.
func (u *TeamUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.Description == nil
}
