package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Email is the external identity key of a user. The remote API treats it as
// case-insensitive, so comparisons must go through Equal or Fold.
type Email string

// Validate checks that the email is non-empty and has a host part.
func (e Email) Validate() error {
	s := string(e)
	if s == "" {
		return goerr.New("email cannot be empty", goerr.T(ErrTagInvalidInput))
	}
	if at := strings.IndexByte(s, '@'); at <= 0 || at == len(s)-1 {
		return goerr.New("malformed email", goerr.V("email", s), goerr.T(ErrTagInvalidInput))
	}
	return nil
}

// Equal reports whether two emails identify the same user.
func (e Email) Equal(other Email) bool {
	return strings.EqualFold(string(e), string(other))
}

// Fold returns the lowercased form used as a map key.
func (e Email) Fold() string {
	return strings.ToLower(string(e))
}

// String returns the string representation of the Email.
func (e Email) String() string {
	return string(e)
}

// Username is the remote API's own user identifier (the GitHub login),
// distinct from the email used as the external identity key. Matching is
// case-insensitive.
type Username string

// Equal reports whether two usernames identify the same member.
func (u Username) Equal(other Username) bool {
	return strings.EqualFold(string(u), string(other))
}

// Fold returns the lowercased form used as a map key.
func (u Username) Fold() string {
	return strings.ToLower(string(u))
}

// String returns the string representation of the Username.
func (u Username) String() string {
	return string(u)
}

// TeamName is the identity key of a team. Unlike emails it is case-sensitive
// and immutable after creation.
type TeamName string

// Validate checks that the team name is non-empty.
func (t TeamName) Validate() error {
	if t == "" {
		return goerr.New("team name cannot be empty", goerr.T(ErrTagInvalidInput))
	}
	return nil
}

// String returns the string representation of the TeamName.
func (t TeamName) String() string {
	return string(t)
}
