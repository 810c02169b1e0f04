package types

import "github.com/m-mizutani/goerr/v2"

// ObjectKind identifies which resource class an operation targets.
type ObjectKind string

const (
	KindUser ObjectKind = "user"
	KindTeam ObjectKind = "team"
)

// Validate checks if the ObjectKind is one of the supported classes.
func (k ObjectKind) Validate() error {
	switch k {
	case KindUser, KindTeam:
		return nil
	default:
		return goerr.New("unsupported object kind", goerr.V("kind", string(k)), goerr.T(ErrTagInvalidInput))
	}
}

// String returns the string representation of the ObjectKind.
func (k ObjectKind) String() string {
	return string(k)
}

// Role represents an organization role of a user.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// IsValid checks if the role is one the remote API accepts.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}
