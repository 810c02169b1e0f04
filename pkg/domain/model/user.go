package model

import (
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// User is the logical user record of the organization. It merges the two
// lifecycle phases the remote API exposes: a pending invitation (only email,
// role and invitation ID known) and an active member (full profile including
// the native username).
type User struct {
	Email       types.Email
	Role        types.Role
	DisplayName string
	AvatarURL   string
	Username    types.Username

	// InvitationID is set only while the user is pending. A pending user
	// has no native username and cannot carry team associations.
	InvitationID string
}

// IsPending reports whether the user is still an outstanding invitation.
func (u *User) IsPending() bool {
	return u.InvitationID != ""
}
